package apperrors

import (
	"net/http"
)

/*
Factories and predefined variables for common business-logic errors.
Factories wrap repository errors; variables cover frequent static cases.
*/

// --- Wrapping factories ---

// ErrNotFound converts a repository miss (e.g. gorm.ErrRecordNotFound) into 404.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// --- Constructing factories ---

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// --- Predefined variables ---

var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"business_logic",
	"Invalid user role for this operation",
	http.StatusBadRequest,
)

var ErrCannotModifySelf = New(
	CodeForbidden,
	"business_logic",
	"Operation on self is not allowed",
	http.StatusForbidden,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// --- Auth ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"auth",
	"Password does not meet the minimum requirements",
	http.StatusBadRequest,
)

var ErrTokenExpired = New(
	CodeTokenExpired,
	"auth",
	"Token has expired",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Token is invalid",
	http.StatusUnauthorized,
)

// --- Uploads & files ---

var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"validation",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)

// --- Memberships & payments ---

// ErrRequestAlreadyResolved guards the terminal transition of subscription
// requests: once approved or rejected a request never changes again.
var ErrRequestAlreadyResolved = New(
	CodeInvalidStatus,
	"subscriptions",
	"Subscription request has already been resolved",
	http.StatusConflict,
)

var ErrMembershipNotActive = New(
	CodeInvalidStatus,
	"memberships",
	"Membership is not active",
	http.StatusForbidden,
)

var ErrTierNotSufficient = New(
	CodeForbidden,
	"courses",
	"Membership tier does not grant access to this course",
	http.StatusForbidden,
)

// --- Notifications ---

var ErrEmptyRecipients = New(
	CodeValidationFailed,
	"notifications",
	"Recipient selection is empty",
	http.StatusBadRequest,
)

var ErrEmptyMessage = New(
	CodeValidationFailed,
	"notifications",
	"Message subject and content must not be empty",
	http.StatusBadRequest,
)

var ErrTemplateInactive = New(
	CodeInvalidStatus,
	"notifications",
	"Notification template is not active",
	http.StatusBadRequest,
)
