package dto

import (
	"net/http"
	"strings"
)

// Error codes returned to clients. Format: ERR_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation     = "ERR_VALIDATION"
	ErrCodeBadRequest     = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput   = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON    = "ERR_INVALID_JSON"
	ErrCodeRequestTooLong = "ERR_REQUEST_TOO_LARGE"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked = "ERR_TOKEN_REVOKED"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState      = "ERR_INVALID_STATE"
	ErrCodeBusinessRule      = "ERR_BUSINESS_RULE"
	ErrCodeInvalidTransition = "ERR_INVALID_TRANSITION"
	ErrCodeProjectArchived   = "ERR_PROJECT_ARCHIVED"
)

// Rate limiting and availability
const (
	ErrCodeRateLimited        = "ERR_RATE_LIMITED"
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:     http.StatusBadRequest,
	ErrCodeBadRequest:     http.StatusBadRequest,
	ErrCodeInvalidInput:   http.StatusBadRequest,
	ErrCodeInvalidJSON:    http.StatusBadRequest,
	ErrCodeRequestTooLong: http.StatusRequestEntityTooLarge,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeTokenRevoked: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:      http.StatusUnprocessableEntity,
	ErrCodeInvalidTransition: http.StatusUnprocessableEntity,
	ErrCodeProjectArchived:   http.StatusUnprocessableEntity,

	ErrCodeRateLimited:        http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
}

// domainCodeStatus covers domain codes that the prefix rules below would
// classify wrongly
var domainCodeStatus = map[string]int{
	"INVALID_CREDENTIALS":  http.StatusUnauthorized,
	"INVALID_TRANSITION":   http.StatusUnprocessableEntity,
	"INVALID_STATE":        http.StatusUnprocessableEntity,
	"ACCOUNT_LOCKED":       http.StatusUnauthorized,
	"ACCOUNT_INACTIVE":     http.StatusUnauthorized,
	"ACCOUNT_DEACTIVATED":  http.StatusUnauthorized,
	"COMPANY_SUSPENDED":    http.StatusForbidden,
	"SELF_DELETION":        http.StatusForbidden,
	"SELF_DEACTIVATION":    http.StatusForbidden,
	"SELF_ROLE_CHANGE":     http.StatusForbidden,
	"INTERNAL_ERROR":       http.StatusInternalServerError,
	"SAVE_FAILED":          http.StatusInternalServerError,
	"PASSWORD_HASH_ERROR":  http.StatusInternalServerError,
	"STORAGE_UNAVAILABLE":  http.StatusServiceUnavailable,
	"STORAGE_CHECK_FAILED": http.StatusServiceUnavailable,
	"UPLOAD_URL_FAILED":    http.StatusServiceUnavailable,
	"PDF_UNAVAILABLE":      http.StatusServiceUnavailable,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"STATUS_IN_USE":        http.StatusConflict,
	"PROJECT_NOT_EMPTY":    http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status for an ERR_ code, 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainStatus returns the HTTP status for a domain error code. Codes are
// classified by convention: *_NOT_FOUND is 404, INVALID_* is 400,
// ALREADY_* and DUPLICATE_* are 409, TOKEN_* is 401 and anything else
// is a business rule violation (422).
func DomainStatus(code string) int {
	if status, ok := domainCodeStatus[code]; ok {
		return status
	}
	if status, ok := ErrorCodeHTTPStatus[NormalizeErrorCode(code)]; ok {
		return status
	}
	switch {
	case strings.HasSuffix(code, "NOT_FOUND"):
		return http.StatusNotFound
	case strings.HasPrefix(code, "INVALID_"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "ALREADY_"), strings.HasPrefix(code, "DUPLICATE_"):
		return http.StatusConflict
	case strings.HasPrefix(code, "TOKEN_"):
		return http.StatusUnauthorized
	default:
		return http.StatusUnprocessableEntity
	}
}

// NormalizeErrorCode prefixes a domain code with ERR_. Codes that already
// carry the prefix are returned unchanged.
func NormalizeErrorCode(code string) string {
	if code == "" {
		return ErrCodeUnknown
	}
	if strings.HasPrefix(code, "ERR_") {
		return code
	}
	return "ERR_" + code
}
