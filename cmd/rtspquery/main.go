// Package main contains a command that queries a RTSP server.
// It sends OPTIONS and DESCRIBE requests and prints the medias of the stream.
// Optionally, it sets up the stream and reads RTP packets for a while.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/lmittmann/tint"

	"github.com/bluenviron/rtspengine"
	"github.com/bluenviron/rtspengine/internal/config"
	"github.com/bluenviron/rtspengine/pkg/base"
	"github.com/bluenviron/rtspengine/pkg/description"
)

func newLogger(conf *config.Config) *slog.Logger {
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      conf.SlogLevel(),
		NoColor:    conf.Logging.NoColor,
		TimeFormat: time.RFC3339,
	}))
}

func printDescription(w io.Writer, desc *description.Session, tracks []string) {
	if desc.Title != "" {
		fmt.Fprintf(w, "title: %s\n", desc.Title)
	}

	for i, medi := range desc.Medias {
		fmt.Fprintf(w, "media %d: %s", i, medi.Type)
		if i < len(tracks) {
			fmt.Fprintf(w, " (%s)", tracks[i])
		}
		fmt.Fprintln(w)

		for _, forma := range medi.Formats {
			fmt.Fprintf(w, "  payload type %d", forma.PayloadType)
			if forma.RTPMap != "" {
				fmt.Fprintf(w, " %s", forma.RTPMap)
			}
			fmt.Fprintln(w)
		}
	}
}

func play(ctx context.Context, c *rtspengine.Client, conf *config.Config, logger *slog.Logger) error {
	for _, track := range c.MediaControlTracks() {
		_, err := c.Setup(ctx, track, nil)
		if err != nil {
			return err
		}
	}

	_, err := c.Play(ctx, c.AggregateControlTrack())
	if err != nil {
		return err
	}

	logger.Info("reading packets", "duration", conf.ReadDuration)

	readCtx, readCtxCancel := context.WithTimeout(ctx, conf.ReadDuration)
	defer readCtxCancel()

	err = c.ReadPackets(readCtx)
	if err != nil {
		return err
	}

	teardownCtx, teardownCtxCancel := context.WithTimeout(context.Background(), conf.Timeout)
	defer teardownCtxCancel()

	_, err = c.Teardown(teardownCtx, c.AggregateControlTrack())
	return err
}

func run(ctx context.Context, conf *config.Config, logger *slog.Logger, out io.Writer) error {
	packets := 0

	c := rtspengine.Client{
		ReadTimeout: conf.Timeout,
		UserAgent:   conf.UserAgent,
		Logger:      logger,
		OnRequest: func(req *base.Message) {
			logger.Debug("request", "method", req.Method, "uri", req.URI)
		},
		OnResponse: func(res *base.Message) {
			logger.Debug("response", "status", int(res.StatusCode), "message", res.StatusMessage)
		},
		OnPacketRTP: func(pctx *rtspengine.ClientOnPacketRTPCtx) {
			packets++
			logger.Debug("RTP packet", "track", pctx.TrackID, "seq", pctx.Packet.SequenceNumber)
		},
		OnDecodeError: func(err error) {
			logger.Warn("decode error", "err", err)
		},
	}

	err := c.Start(conf.Target)
	if err != nil {
		return err
	}
	defer c.Close()

	_, err = c.Options(ctx)
	if err != nil {
		// some servers do not support OPTIONS
		logger.Warn("OPTIONS failed", "err", err)
	} else {
		logger.Info("supported methods", "methods", c.SupportedMethods())
	}

	res, err := c.Describe(ctx)
	if err != nil {
		return err
	}

	var desc description.Session
	err = desc.Unmarshal(res.SDP)
	if err != nil {
		return err
	}

	printDescription(out, &desc, c.MediaControlTracks())

	if !conf.Play {
		return nil
	}

	err = play(ctx, &c, conf, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "received %d RTP packets\n", packets)
	return nil
}

func main() {
	configPath := flag.String("config", "", "path of the YAML configuration file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		slog.Error("unable to load configuration", "err", err)
		os.Exit(1)
	}

	if flag.NArg() > 0 {
		conf.Target = flag.Arg(0)
	}

	err = conf.Validate()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	logger := newLogger(conf)
	slog.SetDefault(logger)

	ctx, ctxCancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer ctxCancel()

	err = run(ctx, conf, logger, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("query failed", "err", err)
		os.Exit(1)
	}
}
