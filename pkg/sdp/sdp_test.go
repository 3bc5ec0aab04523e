package sdp

import (
	"testing"

	psdp "github.com/pion/sdp/v3"
	"github.com/stretchr/testify/require"
)

var casesSDP = []struct {
	name     string
	dec      []byte
	enc      []byte
	control  string
	controls []string
}{
	{
		"aggregate and per-media control",
		[]byte("v=0\r\n" +
			"o=- 0 0 IN IP4 127.0.0.1\r\n" +
			"s=Stream\r\n" +
			"c=IN IP4 0.0.0.0\r\n" +
			"t=0 0\r\n" +
			"a=control:*\r\n" +
			"m=video 0 RTP/AVP 96\r\n" +
			"a=rtpmap:96 H264/90000\r\n" +
			"a=control:trackID=1\r\n" +
			"m=audio 0 RTP/AVP 97\r\n" +
			"a=rtpmap:97 MPEG4-GENERIC/44100/2\r\n" +
			"a=control:trackID=2\r\n"),
		[]byte("v=0\r\n" +
			"o=- 0 0 IN IP4 127.0.0.1\r\n" +
			"s=Stream\r\n" +
			"c=IN IP4 0.0.0.0\r\n" +
			"t=0 0\r\n" +
			"a=control:*\r\n" +
			"m=video 0 RTP/AVP 96\r\n" +
			"a=rtpmap:96 H264/90000\r\n" +
			"a=control:trackID=1\r\n" +
			"m=audio 0 RTP/AVP 97\r\n" +
			"a=rtpmap:97 MPEG4-GENERIC/44100/2\r\n" +
			"a=control:trackID=2\r\n"),
		"*",
		[]string{"trackID=1", "trackID=2"},
	},
	{
		"unix newlines and leading blank line",
		[]byte("\n" +
			"v=0\n" +
			"o=- 0 0 IN IP4 127.0.0.1\n" +
			"s=Stream\n" +
			"t=0 0\n" +
			"m=video 0 RTP/AVP 96\n"),
		[]byte("v=0\r\n" +
			"o=- 0 0 IN IP4 127.0.0.1\r\n" +
			"s=Stream\r\n" +
			"t=0 0\r\n" +
			"m=video 0 RTP/AVP 96\r\n"),
		"",
		[]string{""},
	},
}

func TestUnmarshal(t *testing.T) {
	for _, ca := range casesSDP {
		t.Run(ca.name, func(t *testing.T) {
			var sd SessionDescription
			err := sd.Unmarshal(ca.dec)
			require.NoError(t, err)

			control, _ := sd.Control()
			require.Equal(t, ca.control, control)
			require.Equal(t, ca.controls, sd.MediaControls())
		})
	}
}

func TestMarshal(t *testing.T) {
	for _, ca := range casesSDP {
		t.Run(ca.name, func(t *testing.T) {
			var sd SessionDescription
			err := sd.Unmarshal(ca.dec)
			require.NoError(t, err)

			enc, err := sd.Marshal()
			require.NoError(t, err)
			require.Equal(t, string(ca.enc), string(enc))
			require.Equal(t, string(ca.enc), sd.String())
		})
	}
}

func TestAttribute(t *testing.T) {
	sd := SessionDescription{
		Attributes: []psdp.Attribute{
			{Key: "range", Value: "npt=0-"},
		},
	}

	v, ok := sd.Attribute("range")
	require.True(t, ok)
	require.Equal(t, "npt=0-", v)

	_, ok = sd.Control()
	require.False(t, ok)
}

func TestUnmarshalError(t *testing.T) {
	var sd SessionDescription
	err := sd.Unmarshal([]byte("not a description"))
	require.Error(t, err)
}

func FuzzUnmarshal(f *testing.F) {
	for _, ca := range casesSDP {
		f.Add(ca.dec)
	}

	f.Fuzz(func(_ *testing.T, b []byte) {
		var sd SessionDescription
		sd.Unmarshal(b) //nolint:errcheck
	})
}
