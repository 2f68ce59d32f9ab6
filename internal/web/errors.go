package web

import (
	"errors"
	"net/http"

	"github.com/willemschots/accounts/internal/auth"
	"github.com/willemschots/accounts/internal/errorz"
)

var (
	errRouteNotFound    = errors.New("route not found")
	errMethodNotAllowed = errors.New("method not allowed")
)

// errorResponse is the body of every error response.
type errorResponse struct {
	Path             string           `json:"path"`
	Timestamp        int64            `json:"timestamp"`
	Message          string           `json:"message"`
	ValidationErrors auth.FieldErrors `json:"validationErrors,omitempty"`
}

// handleError writes err as a localized error response.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	tr := translatorFromCtx(r.Context())

	res := errorResponse{
		Path:      r.URL.RequestURI(),
		Timestamp: s.NowFunc().UnixMilli(),
	}

	var (
		status   int
		validErr *auth.ValidationError
		inputErr errorz.InvalidInput
	)

	switch {
	case errors.Is(err, errRouteNotFound):
		status = http.StatusNotFound
		res.Message = tr("not_found")
	case errors.Is(err, errMethodNotAllowed):
		status = http.StatusMethodNotAllowed
		res.Message = tr("method_not_allowed")
	case errors.As(err, &validErr):
		status = http.StatusBadRequest
		res.Message = tr("validation_failure")
		res.ValidationErrors = validErr.Fields.Map(tr)
	case errors.Is(err, auth.ErrActivationFailed):
		status = http.StatusBadRequest
		res.Message = tr("account_activation_failure")
	case errors.Is(err, auth.ErrEmailDelivery):
		status = http.StatusBadGateway
		res.Message = tr("email_failure")
		s.deps.Logger.Warn("email delivery failed", "path", r.URL.Path, "error", err)
	case errors.As(err, &inputErr):
		status = http.StatusBadRequest
		res.Message = tr("invalid_input")
	default:
		status = http.StatusInternalServerError
		res.Message = tr("internal_error")
		s.deps.Logger.Error("internal server error", "url", r.URL.String(), "error", err)
	}

	err = respondJSON(w, status, res)
	if err != nil {
		s.deps.Logger.Error("failed to write error response", "url", r.URL.String(), "error", err)
	}
}
