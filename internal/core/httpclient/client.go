package httpclient

import (
	"net/http"
	"net/url"
	"time"

	"github.com/CFITire/nexus-sub001/internal/core/logger"
	"github.com/CFITire/nexus-sub001/internal/core/proxy"

	"go.uber.org/zap"
)

// LoggingRoundTripper captures request details for debugging.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
}

// RoundTrip executes the request and logs details.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	logger.Get().Debug("HTTP Request Started",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	)

	resp, err := lrt.Proxied.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		logger.Get().Error("HTTP Request Failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Get().Debug("HTTP Request Completed",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// NewClient returns an http.Client with logging middleware.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &LoggingRoundTripper{
			Proxied: http.DefaultTransport,
		},
		Timeout: timeout,
	}
}

// NewProxiedClient returns an http.Client with logging middleware that routes
// requests through the configured egress proxy. Falls back to a direct client
// when no proxy is configured.
func NewProxiedClient(timeout time.Duration, settings proxy.Settings) *http.Client {
	if !settings.HasProxy() {
		return NewClient(timeout)
	}

	proxyURL, err := url.Parse(settings.FullURL())
	if err != nil {
		logger.Get().Warn("Invalid egress proxy URL, using direct client", zap.Error(err))
		return NewClient(timeout)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = http.ProxyURL(proxyURL)

	return &http.Client{
		Transport: &LoggingRoundTripper{
			Proxied: transport,
		},
		Timeout: timeout,
	}
}
