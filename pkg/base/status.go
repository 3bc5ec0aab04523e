package base

import (
	"net/http"
	"strconv"
)

// StatusCode is the status code of a RTSP response.
type StatusCode int

// status codes.
const (
	StatusContinue                       StatusCode = 100
	StatusOK                             StatusCode = 200
	StatusCreated                        StatusCode = 201
	StatusLowOnStorageSpace              StatusCode = 250
	StatusMultipleChoices                StatusCode = 300
	StatusMovedPermanently               StatusCode = 301
	StatusFound                          StatusCode = 302
	StatusSeeOther                       StatusCode = 303
	StatusNotModified                    StatusCode = 304
	StatusUseProxy                       StatusCode = 305
	StatusBadRequest                     StatusCode = 400
	StatusUnauthorized                   StatusCode = 401
	StatusPaymentRequired                StatusCode = 402
	StatusForbidden                      StatusCode = 403
	StatusNotFound                       StatusCode = 404
	StatusMethodNotAllowed               StatusCode = 405
	StatusNotAcceptable                  StatusCode = 406
	StatusProxyAuthRequired              StatusCode = 407
	StatusRequestTimeout                 StatusCode = 408
	StatusGone                           StatusCode = 410
	StatusLengthRequired                 StatusCode = 411
	StatusPreconditionFailed             StatusCode = 412
	StatusRequestEntityTooLarge          StatusCode = 413
	StatusRequestURITooLong              StatusCode = 414
	StatusUnsupportedMediaType           StatusCode = 415
	StatusParameterNotUnderstood         StatusCode = 451
	StatusConferenceNotFound             StatusCode = 452
	StatusNotEnoughBandwidth             StatusCode = 453
	StatusSessionNotFound                StatusCode = 454
	StatusMethodNotValidInThisState      StatusCode = 455
	StatusHeaderFieldNotValidForResource StatusCode = 456
	StatusInvalidRange                   StatusCode = 457
	StatusParameterIsReadOnly            StatusCode = 458
	StatusAggregateOperationNotAllowed   StatusCode = 459
	StatusOnlyAggregateOperationAllowed  StatusCode = 460
	StatusUnsupportedTransport           StatusCode = 461
	StatusDestinationUnreachable         StatusCode = 462
	StatusInternalServerError            StatusCode = 500
	StatusNotImplemented                 StatusCode = 501
	StatusBadGateway                     StatusCode = 502
	StatusServiceUnavailable             StatusCode = 503
	StatusGatewayTimeout                 StatusCode = 504
	StatusRTSPVersionNotSupported        StatusCode = 505
	StatusOptionNotSupported             StatusCode = 551
)

// RTSP-specific reason phrases, from RFC 2326. They take precedence over the HTTP ones.
var rtspStatusMessages = map[StatusCode]string{
	StatusLowOnStorageSpace:              "Low on Storage Space",
	StatusMethodNotAllowed:               "Method Not Allowed",
	StatusParameterNotUnderstood:         "Parameter Not Understood",
	StatusConferenceNotFound:             "Conference Not Found",
	StatusNotEnoughBandwidth:             "Not Enough Bandwidth",
	StatusSessionNotFound:                "Session Not Found",
	StatusMethodNotValidInThisState:      "Method Not Valid in This State",
	StatusHeaderFieldNotValidForResource: "Header Field Not Valid for Resource",
	StatusInvalidRange:                   "Invalid Range",
	StatusParameterIsReadOnly:            "Parameter Is Read-Only",
	StatusAggregateOperationNotAllowed:   "Aggregate operation not allowed",
	StatusOnlyAggregateOperationAllowed:  "Only aggregate operation allowed",
	StatusUnsupportedTransport:           "Unsupported transport",
	StatusDestinationUnreachable:         "Destination unreachable",
	StatusOptionNotSupported:             "Option not supported",
}

// ReasonFor returns the reason phrase associated with a status code.
func ReasonFor(code StatusCode) (string, error) {
	if msg, ok := rtspStatusMessages[code]; ok {
		return msg, nil
	}

	if msg := http.StatusText(int(code)); msg != "" {
		return msg, nil
	}

	return "", ErrUnknownCode{Code: code}
}

// String implements fmt.Stringer.
func (c StatusCode) String() string {
	msg, err := ReasonFor(c)
	if err != nil {
		return strconv.FormatInt(int64(c), 10)
	}
	return strconv.FormatInt(int64(c), 10) + " " + msg
}

// IsSuccess returns whether the status code belongs to the 2xx class.
func (c StatusCode) IsSuccess() bool {
	return c >= 200 && c <= 299
}
