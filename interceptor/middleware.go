package interceptor

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const HeaderRequestID = "X-Request-ID"

// RoundTripperFunc adapts a func to http.RoundTripper
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Middleware wraps a RoundTripper
type Middleware func(http.RoundTripper) http.RoundTripper

// Chain wraps base with mw. The first middleware is the outermost.
func Chain(base http.RoundTripper, mw ...Middleware) http.RoundTripper {
	chained := base
	for i := len(mw) - 1; i >= 0; i-- {
		chained = mw[i](chained)
	}
	return chained
}

// RequestIDMiddleware sets X-Request-ID on requests that lack one
func RequestIDMiddleware(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.Header.Get(HeaderRequestID) != "" {
			return next.RoundTrip(req)
		}
		out := req.Clone(req.Context())
		out.Header.Set(HeaderRequestID, uuid.NewString())
		return next.RoundTrip(out)
	})
}

const (
	green      = "\033[32m"
	blue       = "\033[34m"
	cyan       = "\033[36m"
	yellow     = "\033[33m"
	magenta    = "\033[35m"
	gray       = "\033[90m"
	resetColor = "\033[0m"
)

var methodColors = map[string]string{
	http.MethodGet:    green,
	http.MethodPost:   blue,
	http.MethodPut:    cyan,
	http.MethodDelete: yellow,
	http.MethodPatch:  magenta,
}

func displayMethod(method string) string {
	color, ok := methodColors[method]
	if !ok {
		color = gray
	}
	return color + fmt.Sprintf("%-7s", method) + resetColor
}

// LoggingMiddleware logs every round trip at debug level. In DEV the method is colourised.
func LoggingMiddleware(env string, logger zerolog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)

			method := req.Method
			if env == "DEV" {
				method = displayMethod(method)
			}
			event := logger.Debug().
				Str("method", method).
				Str("path", req.URL.Path).
				Str("request_id", req.Header.Get(HeaderRequestID)).
				Dur("elapsed", time.Since(start))
			if err != nil {
				event.Err(err).Msg("Request failed")
				return resp, err
			}
			event.Int("status", resp.StatusCode).Msg("Request")
			return resp, nil
		})
	}
}
