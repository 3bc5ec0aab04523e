// Package description contains objects to describe streams.
package description

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	psdp "github.com/pion/sdp/v3"

	"github.com/bluenviron/rtspengine/pkg/base"
)

var smartRegexp = regexp.MustCompile("^([0-9]+) (.*?)/90000")

func replaceSmartPayloadType(payloadType string, attributes []psdp.Attribute) string {
	if payloadType == "smart/1/90000" {
		for _, attr := range attributes {
			if attr.Key == "rtpmap" {
				sm := smartRegexp.FindStringSubmatch(attr.Value)
				if sm != nil {
					return sm[1]
				}
			}
		}
	}
	return payloadType
}

func getAttribute(attributes []psdp.Attribute, key string) string {
	for _, attr := range attributes {
		if attr.Key == key {
			return attr.Value
		}
	}
	return ""
}

func getFormatAttribute(attributes []psdp.Attribute, payloadType uint8, key string) string {
	for _, attr := range attributes {
		if attr.Key == key {
			v := strings.TrimSpace(attr.Value)
			if parts := strings.SplitN(v, " ", 2); len(parts) == 2 {
				if tmp, err := strconv.ParseUint(parts[0], 10, 8); err == nil && uint8(tmp) == payloadType {
					return parts[1]
				}
			}
		}
	}
	return ""
}

func decodeFMTP(enc string) map[string]string {
	if enc == "" {
		return nil
	}

	ret := make(map[string]string)

	for _, kv := range strings.Split(enc, ";") {
		kv = strings.Trim(kv, " ")

		if len(kv) == 0 {
			continue
		}

		key, val, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}

		ret[strings.ToLower(key)] = val
	}

	return ret
}

func sortedKeys(fmtp map[string]string) []string {
	keys := make([]string, 0, len(fmtp))
	for key := range fmtp {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func isAlphaNumeric(v string) bool {
	for _, r := range v {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

// MediaType is the type of a media stream.
type MediaType string

// media types.
const (
	MediaTypeVideo       MediaType = "video"
	MediaTypeAudio       MediaType = "audio"
	MediaTypeApplication MediaType = "application"
)

// Format is a RTP payload format of a media.
// Payloads are not decoded, formats are described by their SDP attributes only.
type Format struct {
	// payload type
	PayloadType uint8

	// (optional) rtpmap attribute, i.e. H264/90000
	RTPMap string

	// (optional) fmtp attribute
	FMTP map[string]string
}

// Media is a media stream.
// It contains one or more formats.
type Media struct {
	// Media type.
	Type MediaType

	// Media ID (optional).
	ID string

	// Control attribute.
	Control string

	// Formats contained into the media.
	Formats []Format
}

// Unmarshal decodes the media from the SDP format.
func (m *Media) Unmarshal(md *psdp.MediaDescription) error {
	m.Type = MediaType(md.MediaName.Media)

	m.ID = getAttribute(md.Attributes, "mid")
	if m.ID != "" && !isAlphaNumeric(m.ID) {
		return fmt.Errorf("invalid mid: %v", m.ID)
	}

	m.Control = getAttribute(md.Attributes, "control")

	m.Formats = nil
	for _, payloadType := range md.MediaName.Formats {
		payloadType = replaceSmartPayloadType(payloadType, md.Attributes)

		tmp, err := strconv.ParseUint(payloadType, 10, 8)
		if err != nil {
			return fmt.Errorf("invalid payload type: %v", payloadType)
		}
		payloadTypeInt := uint8(tmp)

		m.Formats = append(m.Formats, Format{
			PayloadType: payloadTypeInt,
			RTPMap:      getFormatAttribute(md.Attributes, payloadTypeInt, "rtpmap"),
			FMTP:        decodeFMTP(getFormatAttribute(md.Attributes, payloadTypeInt, "fmtp")),
		})
	}

	if m.Formats == nil {
		return fmt.Errorf("no formats found")
	}

	return nil
}

// Marshal encodes the media in SDP format.
func (m Media) Marshal() *psdp.MediaDescription {
	md := &psdp.MediaDescription{
		MediaName: psdp.MediaName{
			Media:  string(m.Type),
			Protos: []string{"RTP", "AVP"},
		},
	}

	if m.ID != "" {
		md.Attributes = append(md.Attributes, psdp.Attribute{
			Key:   "mid",
			Value: m.ID,
		})
	}

	md.Attributes = append(md.Attributes, psdp.Attribute{
		Key:   "control",
		Value: m.Control,
	})

	for _, forma := range m.Formats {
		typ := strconv.FormatUint(uint64(forma.PayloadType), 10)
		md.MediaName.Formats = append(md.MediaName.Formats, typ)

		if forma.RTPMap != "" {
			md.Attributes = append(md.Attributes, psdp.Attribute{
				Key:   "rtpmap",
				Value: typ + " " + forma.RTPMap,
			})
		}

		if len(forma.FMTP) != 0 {
			tmp := make([]string, 0, len(forma.FMTP))
			for _, key := range sortedKeys(forma.FMTP) {
				tmp = append(tmp, key+"="+forma.FMTP[key])
			}

			md.Attributes = append(md.Attributes, psdp.Attribute{
				Key:   "fmtp",
				Value: typ + " " + strings.Join(tmp, "; "),
			})
		}
	}

	return md
}

// URL returns the absolute URL of the media.
func (m Media) URL(contentBase string) (string, error) {
	if contentBase == "" {
		return "", fmt.Errorf("Content-Base header not provided")
	}

	return base.ResolveControl(contentBase, m.Control)
}
