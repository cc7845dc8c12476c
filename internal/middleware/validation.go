package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "tmdbreport/internal/errors"
)

// QueryParamValidator validates query parameters against validator tags
// and answers invalid ones with an RFC 7807 response.
type QueryParamValidator struct {
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewQueryParamValidator creates a new query parameter validator
func NewQueryParamValidator(logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *QueryParamValidator {
	return &QueryParamValidator{
		validate:     validator.New(),
		logger:       logger.With(slog.String("component", "query_validator")),
		errorHandler: errorHandler,
	}
}

// Int reads an integer parameter and checks it against tag, e.g.
// "min=1,max=100". Missing parameters yield defaultValue. The second result
// is false when an error response has been written.
func (v *QueryParamValidator) Int(w http.ResponseWriter, r *http.Request, param, tag string, defaultValue int) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(param))
	if raw == "" {
		return defaultValue, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		v.reject(w, r, param, fmt.Sprintf("%s must be a valid integer", param))
		return 0, false
	}
	if err := v.validate.Var(value, tag); err != nil {
		v.reject(w, r, param, describe(param, err))
		return 0, false
	}
	return value, true
}

// String reads a string parameter and checks it against tag, e.g.
// "oneof=a b".
func (v *QueryParamValidator) String(w http.ResponseWriter, r *http.Request, param, tag, defaultValue string) (string, bool) {
	value := strings.TrimSpace(r.URL.Query().Get(param))
	if value == "" {
		return defaultValue, true
	}
	if err := v.validate.Var(value, tag); err != nil {
		v.reject(w, r, param, describe(param, err))
		return "", false
	}
	return value, true
}

func (v *QueryParamValidator) reject(w http.ResponseWriter, r *http.Request, param, message string) {
	v.logger.DebugContext(r.Context(), "query parameter rejected",
		slog.String("param", param),
		slog.String("value", r.URL.Query().Get(param)),
	)
	v.errorHandler.HandleError(w, r, apierrors.ErrValidation(param, message))
}

// describe formats the first validation failure for a single parameter.
func describe(param string, err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return fmt.Sprintf("%s is invalid", param)
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", param, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", param, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", param, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed %s validation", param, fe.Tag())
	}
}
