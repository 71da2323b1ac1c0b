package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	customerdomain "github.com/smallbiznis/milkledger/internal/customer/domain"
	deliverydomain "github.com/smallbiznis/milkledger/internal/delivery/domain"
	reportdomain "github.com/smallbiznis/milkledger/internal/report/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

var (
	ErrInvalidRequest = errors.New("invalid request body")
	ErrInvalidQuery   = errors.New("invalid query parameter")
)

// operationError carries the message shown when err maps to no known class.
type operationError struct {
	message string
	err     error
}

func (e *operationError) Error() string {
	return e.message + ": " + e.err.Error()
}

func (e *operationError) Unwrap() error {
	return e.err
}

func failed(message string, err error) error {
	if err == nil {
		return nil
	}
	return &operationError{message: message, err: err}
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, message := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: message})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, "Internal server error"
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return http.StatusBadRequest, fieldErrorMessage(fieldErrs[0])
	}

	switch {
	case isInvalidIdentifier(err), isValidationError(err):
		return http.StatusBadRequest, rootMessage(err)
	case isNotFoundError(err):
		return http.StatusNotFound, rootMessage(err)
	}

	var opErr *operationError
	if errors.As(err, &opErr) {
		return http.StatusInternalServerError, opErr.message
	}
	return http.StatusInternalServerError, "Internal server error"
}

// rootMessage returns the message of the sentinel at the bottom of err.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

func isInvalidIdentifier(err error) bool {
	switch {
	case errors.Is(err, customerdomain.ErrInvalidID),
		errors.Is(err, deliverydomain.ErrInvalidID),
		errors.Is(err, deliverydomain.ErrInvalidCustomerID):
		return true
	default:
		return false
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrInvalidQuery):
		return true
	case isCustomerValidationError(err),
		isRecordValidationError(err),
		isReportValidationError(err):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, deliverydomain.ErrNotFound):
		return true
	default:
		return false
	}
}

func isReportValidationError(err error) bool {
	return errors.Is(err, reportdomain.ErrInvalidRate) || errors.Is(err, reportdomain.ErrInvalidFormat)
}

func fieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gte", "min":
		return field + " cannot be negative"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return field + " is invalid"
	}
}

func classifyErrorForLog(err error) string {
	var fieldErrs validator.ValidationErrors
	switch {
	case err == nil:
		return ""
	case errors.As(err, &fieldErrs):
		return "validation"
	case isInvalidIdentifier(err):
		return "invalid_identifier"
	case isValidationError(err):
		return "validation"
	case isNotFoundError(err):
		return "not_found"
	default:
		return "store"
	}
}
