package client

import (
	"net/http"
	"net/http/httputil"
	"os"

	"github.com/rs/zerolog/log"
)

// debugTransport dumps every request and response to the debug log.
//
// Enable with LOANS_DEBUG=true or DEBUG=true, or WithDebugLogging(true).
// Dumps contain full bodies; keep it out of production.
type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := dt.base
	if base == nil {
		base = http.DefaultTransport
	}

	if reqDump, err := httputil.DumpRequestOut(req, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", string(reqDump)).Msg("HTTP request")
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
		return nil, err
	}

	if respDump, err := httputil.DumpResponse(resp, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Str("response_dump", string(respDump)).Msg("HTTP response")
	}
	return resp, nil
}

// debugLoggingRequested reports whether LOANS_DEBUG or DEBUG is "true".
func debugLoggingRequested() bool {
	return os.Getenv("LOANS_DEBUG") == "true" || os.Getenv("DEBUG") == "true"
}

// restyLogger routes resty's internal messages into zerolog at debug/warn so
// they never reach the rendered output.
type restyLogger struct{}

func (restyLogger) Errorf(format string, v ...interface{}) { log.Debug().Msgf("resty: "+format, v...) }
func (restyLogger) Warnf(format string, v ...interface{})  { log.Warn().Msgf("resty: "+format, v...) }
func (restyLogger) Debugf(format string, v ...interface{}) { log.Debug().Msgf("resty: "+format, v...) }
