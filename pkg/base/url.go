package base

import (
	"fmt"
	"net/url"
	"strings"
)

// ResolveControl resolves a control attribute against a base URL,
// obtaining an absolute URL.
func ResolveControl(contentBase string, control string) (string, error) {
	// no control attribute or aggregate control, use base URL
	if control == "" || control == "*" {
		return contentBase, nil
	}

	// control attribute contains an absolute URL
	if strings.HasPrefix(control, "rtsp://") ||
		strings.HasPrefix(control, "rtsps://") {
		_, err := url.Parse(control)
		if err != nil {
			return "", fmt.Errorf("invalid control attribute: '%v'", control)
		}
		return control, nil
	}

	if contentBase == "" {
		return "", fmt.Errorf("base URL not provided")
	}

	// control attribute contains a relative control attribute
	// insert the control attribute at the end of the URL
	// if there's a query, insert it after the query
	// otherwise insert it after the path
	ret := contentBase
	if control[0] != '?' && !strings.HasSuffix(ret, "/") {
		ret += "/"
	}
	ret += control

	_, err := url.Parse(ret)
	if err != nil {
		return "", fmt.Errorf("invalid control attribute: '%v'", control)
	}

	return ret, nil
}
