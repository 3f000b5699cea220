package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes we classify.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// ErrorInfo is a parsed error ready to be sent to the client.
type ErrorInfo struct {
	Status  int
	Code    string
	Message string
}

// ParseError classifies err into a status, code and client-safe message.
// context names the operation, e.g. "product", "create bundle".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Status:  http.StatusInternalServerError,
			Code:    InternalServerError,
			Message: "Internal server error",
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Status:  http.StatusNotFound,
			Code:    ResourceNotFound,
			Message: notFoundMessage(context),
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return parsePgError(pgErr, context)
	}

	errLower := strings.ToLower(err.Error())
	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{
			Status:  http.StatusServiceUnavailable,
			Code:    InternalExternalAPI,
			Message: "An upstream service is unavailable, please try again later",
		}
	}

	return ErrorInfo{
		Status:  http.StatusInternalServerError,
		Code:    InternalServerError,
		Message: defaultMessage(context),
	}
}

func parsePgError(pgErr *pgconn.PgError, context string) ErrorInfo {
	switch pgErr.Code {
	case pgUniqueViolation:
		msg := "This record already exists"
		if strings.Contains(strings.ToLower(pgErr.ConstraintName), "slug") {
			msg = "This slug is already in use"
		} else if strings.Contains(strings.ToLower(pgErr.ConstraintName), "sku") {
			msg = "This SKU is already in use"
		}
		return ErrorInfo{Status: http.StatusConflict, Code: ResourceAlreadyExists, Message: msg}
	case pgForeignKeyViolation:
		return ErrorInfo{Status: http.StatusBadRequest, Code: ValidationInvalidID, Message: "A referenced record does not exist"}
	case pgNotNullViolation:
		msg := "A required field is missing"
		if pgErr.ColumnName != "" {
			msg = "Field " + pgErr.ColumnName + " is required"
		}
		return ErrorInfo{Status: http.StatusBadRequest, Code: ValidationRequired, Message: msg}
	case pgCheckViolation:
		return ErrorInfo{Status: http.StatusBadRequest, Code: ValidationInvalidRange, Message: "A value is out of range"}
	}
	return ErrorInfo{
		Status:  http.StatusInternalServerError,
		Code:    InternalDatabaseError,
		Message: defaultMessage(context),
	}
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "bundle"):
		return "Bundle not found"
	case strings.Contains(contextLower, "product"):
		return "Product not found"
	case strings.Contains(contextLower, "category"):
		return "Category not found"
	case strings.Contains(contextLower, "setting"):
		return "Setting not found"
	}
	return "The requested resource was not found"
}

func defaultMessage(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "create"):
		return "Failed to create, please try again later"
	case strings.Contains(contextLower, "update"):
		return "Failed to update, please try again later"
	case strings.Contains(contextLower, "delete"):
		return "Failed to delete, please try again later"
	}
	return "Something went wrong, please try again later"
}

// ParseAndRespond writes the parsed error as JSON with its classified status.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, err error, context string) {
	info := ParseError(err, context)
	c.JSON(info.Status, ErrorResponse{
		Error:   info.Code,
		Message: info.Message,
	})
}
