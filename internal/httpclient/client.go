// Package httpclient provides the shared HTTP client used for upstream API calls.
//
// IMPORTANT: Callers MUST close response bodies:
//
//	resp, err := httpclient.New(timeout).Do(req)
//	if err != nil {
//	    return err
//	}
//	defer resp.Body.Close()  // Required even on non-2xx status
//
// A page load issues one request per story, so every client shares a single
// pooled transport. Creating a fresh transport per client would open a new
// connection for each story instead of reusing the keep-alive pool.
package httpclient

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// DefaultTimeout bounds a single upstream request.
const DefaultTimeout = 30 * time.Second

var (
	sharedTransport *http.Transport
	transportOnce   sync.Once

	defaultClient *http.Client
	clientOnce    sync.Once
)

// Transport returns the shared transport with connection pooling settings.
// MaxIdleConnsPerHost covers a full page of concurrent item requests.
func Transport() *http.Transport {
	transportOnce.Do(func() {
		sharedTransport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   20,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
			ResponseHeaderTimeout: 30 * time.Second,
		}
	})
	return sharedTransport
}

// Default returns a shared HTTP client with DefaultTimeout.
func Default() *http.Client {
	clientOnce.Do(func() {
		defaultClient = &http.Client{
			Transport: Transport(),
			Timeout:   DefaultTimeout,
		}
	})
	return defaultClient
}

// New returns a client on the shared transport with the given timeout.
// A non-positive timeout falls back to DefaultTimeout.
func New(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		return Default()
	}
	return &http.Client{
		Transport: Transport(),
		Timeout:   timeout,
	}
}
