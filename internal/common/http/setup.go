package http

import (
	"net/http"

	"github.com/AlibekovAA/jobboard/internal/common/constants"
	"github.com/AlibekovAA/jobboard/internal/common/httpmetrics"
	"github.com/AlibekovAA/jobboard/internal/common/logger"
)

// BuildBaseHandler wraps handler in the middleware every request passes
// through, outermost first: security headers, CSP, panic recovery, trace id,
// body size limit and request metrics.
func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	metrics := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	traceID := TraceIDMiddleware
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)
	securityHeaders := SecurityHeadersMiddleware
	csp := ContentSecurityPolicyMiddleware("")

	return securityHeaders(csp(recovery(traceID(maxRequestSize(metrics.Wrap(handler))))))
}
