package middleware

import (
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/amiskov/guide-client/pkg/logger"
)

const HeaderRequestID = "X-Request-ID"

// SetupTracing tags every outgoing request with a fresh X-Request-ID unless
// the caller already set one.
func SetupTracing(_ *resty.Client, req *resty.Request) error {
	if req.Header.Get(HeaderRequestID) == "" {
		req.SetHeader(HeaderRequestID, uuid.NewString())
	}
	logger.Log(req.Context()).Debugw("api request",
		"method", req.Method,
		"url", req.URL,
		"request_id", req.Header.Get(HeaderRequestID),
	)
	return nil
}

func AccessLog(_ *resty.Client, resp *resty.Response) error {
	req := resp.Request
	logger.Log(req.Context()).Infow("api response",
		"method", req.Method,
		"url", req.URL,
		"status", resp.StatusCode(),
		"request_id", req.Header.Get(HeaderRequestID),
		"time", resp.Time(),
	)
	return nil
}
