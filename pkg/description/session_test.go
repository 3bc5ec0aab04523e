package description

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bluenviron/rtspengine/pkg/sdp"
)

var casesSession = []struct {
	name string
	in   string
	out  string
	desc Session
}{
	{
		"one format for each media, absolute",
		"v=0\r\n" +
			"o=- 0 0 IN IP4 10.0.0.131\r\n" +
			"s=Media Presentation\r\n" +
			"i=samsung\r\n" +
			"c=IN IP4 0.0.0.0\r\n" +
			"b=AS:2632\r\n" +
			"t=0 0\r\n" +
			"a=control:rtsp://10.0.100.50/profile5/media.smp\r\n" +
			"a=range:npt=now-\r\n" +
			"m=video 42504 RTP/AVP 97\r\n" +
			"b=AS:2560\r\n" +
			"a=rtpmap:97 H264/90000\r\n" +
			"a=control:rtsp://10.0.100.50/profile5/media.smp/trackID=v\r\n" +
			"a=cliprect:0,0,1080,1920\r\n" +
			"a=framesize:97 1920-1080\r\n" +
			"a=framerate:30.0\r\n" +
			"a=fmtp:97 packetization-mode=1;profile-level-id=640028;sprop-parameter-sets=Z2QAKKy0A8ARPyo=,aO4Bniw=\r\n" +
			"m=audio 42506 RTP/AVP 0\r\n" +
			"b=AS:64\r\n" +
			"a=rtpmap:0 PCMU/8000\r\n" +
			"a=control:rtsp://10.0.100.50/profile5/media.smp/trackID=a\r\n" +
			"a=recvonly\r\n" +
			"m=application 42508 RTP/AVP 107\r\n" +
			"b=AS:8\r\n",
		"v=0\r\n" +
			"o=- 0 0 IN IP4 127.0.0.1\r\n" +
			"s=Media Presentation\r\n" +
			"c=IN IP4 0.0.0.0\r\n" +
			"t=0 0\r\n" +
			"a=control:rtsp://10.0.100.50/profile5/media.smp\r\n" +
			"m=video 0 RTP/AVP 97\r\n" +
			"a=control:rtsp://10.0.100.50/profile5/media.smp/trackID=v\r\n" +
			"a=rtpmap:97 H264/90000\r\n" +
			"a=fmtp:97 packetization-mode=1; profile-level-id=640028; sprop-parameter-sets=Z2QAKKy0A8ARPyo=,aO4Bniw=\r\n" +
			"m=audio 0 RTP/AVP 0\r\n" +
			"a=control:rtsp://10.0.100.50/profile5/media.smp/trackID=a\r\n" +
			"a=rtpmap:0 PCMU/8000\r\n" +
			"m=application 0 RTP/AVP 107\r\n" +
			"a=control\r\n",
		Session{
			Title:   `Media Presentation`,
			Control: "rtsp://10.0.100.50/profile5/media.smp",
			Medias: []*Media{
				{
					Type:    MediaTypeVideo,
					Control: "rtsp://10.0.100.50/profile5/media.smp/trackID=v",
					Formats: []Format{{
						PayloadType: 97,
						RTPMap:      "H264/90000",
						FMTP: map[string]string{
							"packetization-mode":   "1",
							"profile-level-id":     "640028",
							"sprop-parameter-sets": "Z2QAKKy0A8ARPyo=,aO4Bniw=",
						},
					}},
				},
				{
					Type:    MediaTypeAudio,
					Control: "rtsp://10.0.100.50/profile5/media.smp/trackID=a",
					Formats: []Format{{
						PayloadType: 0,
						RTPMap:      "PCMU/8000",
					}},
				},
				{
					Type: MediaTypeApplication,
					Formats: []Format{{
						PayloadType: 107,
					}},
				},
			},
		},
	},
	{
		"relative controls, no title",
		"v=0\r\n" +
			"o=- 0 0 IN IP4 127.0.0.1\r\n" +
			"s= \r\n" +
			"c=IN IP4 0.0.0.0\r\n" +
			"t=0 0\r\n" +
			"a=control:*\r\n" +
			"m=video 0 RTP/AVP 96\r\n" +
			"a=mid:v\r\n" +
			"a=control:trackID=1\r\n" +
			"a=rtpmap:96 H264/90000\r\n" +
			"m=audio 0 RTP/AVP 97\r\n" +
			"a=mid:a\r\n" +
			"a=control:trackID=2\r\n" +
			"a=rtpmap:97 mpeg4-generic/48000/2\r\n",
		"v=0\r\n" +
			"o=- 0 0 IN IP4 127.0.0.1\r\n" +
			"s= \r\n" +
			"c=IN IP4 0.0.0.0\r\n" +
			"t=0 0\r\n" +
			"a=control:*\r\n" +
			"m=video 0 RTP/AVP 96\r\n" +
			"a=mid:v\r\n" +
			"a=control:trackID=1\r\n" +
			"a=rtpmap:96 H264/90000\r\n" +
			"m=audio 0 RTP/AVP 97\r\n" +
			"a=mid:a\r\n" +
			"a=control:trackID=2\r\n" +
			"a=rtpmap:97 mpeg4-generic/48000/2\r\n",
		Session{
			Control: "*",
			Medias: []*Media{
				{
					Type:    MediaTypeVideo,
					ID:      "v",
					Control: "trackID=1",
					Formats: []Format{{
						PayloadType: 96,
						RTPMap:      "H264/90000",
					}},
				},
				{
					Type:    MediaTypeAudio,
					ID:      "a",
					Control: "trackID=2",
					Formats: []Format{{
						PayloadType: 97,
						RTPMap:      "mpeg4-generic/48000/2",
					}},
				},
			},
		},
	},
}

func TestSessionUnmarshal(t *testing.T) {
	for _, ca := range casesSession {
		t.Run(ca.name, func(t *testing.T) {
			var sd sdp.SessionDescription
			err := sd.Unmarshal([]byte(ca.in))
			require.NoError(t, err)

			var desc Session
			err = desc.Unmarshal(&sd)
			require.NoError(t, err)
			require.Equal(t, ca.desc, desc)
		})
	}
}

func TestSessionMarshal(t *testing.T) {
	for _, ca := range casesSession {
		t.Run(ca.name, func(t *testing.T) {
			byts, err := ca.desc.Marshal(false)
			require.NoError(t, err)
			require.Equal(t, ca.out, string(byts))
		})
	}
}

func TestSessionMarshalMulticast(t *testing.T) {
	desc := Session{
		Medias: []*Media{{
			Type:    MediaTypeVideo,
			Control: "trackID=0",
			Formats: []Format{{PayloadType: 96, RTPMap: "H264/90000"}},
		}},
	}

	byts, err := desc.Marshal(true)
	require.NoError(t, err)
	require.Equal(t, "v=0\r\n"+
		"o=- 0 0 IN IP4 127.0.0.1\r\n"+
		"s= \r\n"+
		"c=IN IP4 224.1.0.0\r\n"+
		"t=0 0\r\n"+
		"m=video 0 RTP/AVP 96\r\n"+
		"a=control:trackID=0\r\n"+
		"a=rtpmap:96 H264/90000\r\n", string(byts))
}

func TestSessionUnmarshalErrors(t *testing.T) {
	for _, ca := range []struct {
		name string
		sdp  string
		err  string
	}{
		{
			"no formats",
			"v=0\r\n" +
				"o=- 0 0 IN IP4 127.0.0.1\r\n" +
				"s= \r\n" +
				"t=0 0\r\n" +
				"m=video 0 RTP/AVP\r\n",
			"media 1 is invalid: no formats found",
		},
		{
			"invalid payload type",
			"v=0\r\n" +
				"o=- 0 0 IN IP4 127.0.0.1\r\n" +
				"s= \r\n" +
				"t=0 0\r\n" +
				"m=video 0 RTP/AVP aa\r\n",
			"media 1 is invalid: invalid payload type: aa",
		},
		{
			"invalid mid",
			"v=0\r\n" +
				"o=- 0 0 IN IP4 127.0.0.1\r\n" +
				"s= \r\n" +
				"t=0 0\r\n" +
				"m=video 0 RTP/AVP 96\r\n" +
				"a=mid:a b\r\n",
			"media 1 is invalid: invalid mid: a b",
		},
		{
			"duplicate mid",
			"v=0\r\n" +
				"o=- 0 0 IN IP4 127.0.0.1\r\n" +
				"s= \r\n" +
				"t=0 0\r\n" +
				"m=video 0 RTP/AVP 96\r\n" +
				"a=mid:a\r\n" +
				"m=audio 0 RTP/AVP 97\r\n" +
				"a=mid:a\r\n",
			"duplicate media IDs",
		},
		{
			"partial mid",
			"v=0\r\n" +
				"o=- 0 0 IN IP4 127.0.0.1\r\n" +
				"s= \r\n" +
				"t=0 0\r\n" +
				"m=video 0 RTP/AVP 96\r\n" +
				"a=mid:a\r\n" +
				"m=audio 0 RTP/AVP 97\r\n",
			"media IDs sent partially",
		},
	} {
		t.Run(ca.name, func(t *testing.T) {
			var sd sdp.SessionDescription
			err := sd.Unmarshal([]byte(ca.sdp))
			require.NoError(t, err)

			var desc Session
			err = desc.Unmarshal(&sd)
			require.EqualError(t, err, ca.err)
		})
	}
}
