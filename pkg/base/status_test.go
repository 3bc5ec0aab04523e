package base

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReasonFor(t *testing.T) {
	for _, ca := range []struct {
		code StatusCode
		msg  string
	}{
		{StatusOK, "OK"},
		{StatusNotFound, "Not Found"},
		{StatusLowOnStorageSpace, "Low on Storage Space"},
		{StatusSessionNotFound, "Session Not Found"},
		{StatusMethodNotValidInThisState, "Method Not Valid in This State"},
		{StatusUnsupportedTransport, "Unsupported transport"},
		{StatusOptionNotSupported, "Option not supported"},
		{StatusRTSPVersionNotSupported, "HTTP Version Not Supported"},
	} {
		t.Run(ca.code.String(), func(t *testing.T) {
			msg, err := ReasonFor(ca.code)
			require.NoError(t, err)
			require.Equal(t, ca.msg, msg)
		})
	}
}

func TestReasonForUnknown(t *testing.T) {
	_, err := ReasonFor(299)
	require.Equal(t, ErrUnknownCode{Code: 299}, err)
	require.EqualError(t, err, "unknown status code: 299")
}

func TestStatusCodeString(t *testing.T) {
	require.Equal(t, "454 Session Not Found", StatusSessionNotFound.String())
	require.Equal(t, "299", StatusCode(299).String())
}

func TestStatusCodeIsSuccess(t *testing.T) {
	require.True(t, StatusOK.IsSuccess())
	require.True(t, StatusCreated.IsSuccess())
	require.False(t, StatusContinue.IsSuccess())
	require.False(t, StatusFound.IsSuccess())
	require.False(t, StatusSessionNotFound.IsSuccess())
}
