package app

import (
	"net"
	"net/http"
	"time"
)

// newHighThroughputHTTPClient returns an HTTP client whose pool can serve
// every concurrent completion call of a run without queueing. The overall
// timeout bounds one completion; fetches apply their own shorter deadline.
func newHighThroughputHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          0,
		MaxIdleConnsPerHost:   128,
		MaxConnsPerHost:       0,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
