package base

// LibraryVersion is the version of the library.
const LibraryVersion = "1.0.0"

// UserAgent is the default value of the User-Agent header.
const UserAgent = "rtspengine/" + LibraryVersion

// default headers of each method, in addition to CSeq and User-Agent.
var methodDefaults = map[Method][]HeaderEntry{
	Describe: {
		{Key: KeyAccept, Value: StringValue("application/sdp")},
	},
	Announce: {
		{Key: KeyContentType, Value: StringValue("application/sdp")},
	},
	Play: {
		{Key: KeyRange, Value: StringValue("npt=0.000-")},
	},
	GetParameter: {
		{Key: KeyContentType, Value: StringValue("text/parameters")},
	},
	SetParameter: {
		{Key: KeyContentType, Value: StringValue("text/parameters")},
	},
}

// Defaults returns the default headers of a method.
func Defaults(method Method) Header {
	var h Header

	h.set(KeyCSeq, IntValue(1))
	h.set(KeyUserAgent, StringValue(UserAgent))

	for _, e := range methodDefaults[method] {
		h.set(e.Key, e.Value)
	}

	return h
}
