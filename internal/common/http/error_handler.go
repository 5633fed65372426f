package http

import (
	"net/http"
	"strconv"

	commonerrors "github.com/AlibekovAA/jobboard/internal/common/errors"
	"github.com/AlibekovAA/jobboard/internal/common/httpmetrics"
	"github.com/AlibekovAA/jobboard/internal/common/logger"
	"github.com/AlibekovAA/jobboard/internal/observability/metrics"
)

type ErrorHandler struct {
	log       *logger.Logger
	signInURL string
}

// NewErrorHandler renders errors as JSON envelopes. Unauthorized responses
// carry signInURL in details so clients know where to send the caller.
func NewErrorHandler(log *logger.Logger, signInURL string) *ErrorHandler {
	return &ErrorHandler{log: log, signInURL: signInURL}
}

func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	if domainErr, ok := commonerrors.AsDomainError(err); ok {
		h.handleDomainError(w, r, domainErr)
		return
	}

	traceID := TraceIDFromContext(r.Context())

	h.log.WithFields(r.Context(), logger.Fields{
		"error":  err.Error(),
		"path":   r.URL.Path,
		"action": "unhandled_error",
	}).Errorf("unhandled error: %v", err)

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(http.StatusInternalServerError),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	WriteErrorEnvelope(w, http.StatusInternalServerError, commonerrors.ErrInternalError.Code(), commonerrors.ErrInternalError.Message(), nil, traceID)
}

func (h *ErrorHandler) handleDomainError(w http.ResponseWriter, r *http.Request, err commonerrors.DomainError) {
	ctx := r.Context()
	traceID := TraceIDFromContext(ctx)

	domainErr := err
	if traceID != "" && err.TraceID() == "" {
		domainErr = err.WithTraceID(traceID)
	}

	status := domainErr.HTTPStatus()

	fields := logger.Fields{
		"error_code": domainErr.Code(),
		"category":   string(domainErr.Category()),
		"status":     status,
		"path":       r.URL.Path,
		"action":     "domain_error",
	}

	switch {
	case status >= http.StatusInternalServerError:
		h.log.WithFields(ctx, fields).Errorf("domain error: %s", domainErr.Error())
	case h.log.ShouldLog(logger.DEBUG):
		h.log.WithFields(ctx, fields).Debugf("domain error: %s", domainErr.Error())
	}

	metrics.DomainErrorsTotal.WithLabelValues(
		string(domainErr.Category()),
		domainErr.Code(),
		strconv.Itoa(status),
	).Inc()

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(status),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	details := domainErr.Details()
	if status == http.StatusUnauthorized && h.signInURL != "" {
		merged := make(map[string]any, len(details)+1)
		for k, v := range details {
			merged[k] = v
		}
		merged["sign_in_url"] = h.signInURL
		details = merged
	}

	WriteErrorEnvelope(w, status, domainErr.Code(), domainErr.Message(), details, domainErr.TraceID())
}

