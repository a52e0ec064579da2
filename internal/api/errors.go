package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/autolist-api/internal/api/shared"
	"github.com/phrazzld/autolist-api/internal/domain"
	"github.com/phrazzld/autolist-api/internal/service"
	"github.com/phrazzld/autolist-api/internal/service/auth"
	"github.com/phrazzld/autolist-api/internal/store"
)

const unexpectedErrorMessage = "An unexpected error occurred"

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var storageErr *service.StorageError
	var fieldErrs validator.ValidationErrors

	switch {
	case err == nil:
		return http.StatusOK

	// Blob storage failures are server errors even when the cause looks like a not-found
	case errors.As(err, &storageErr):
		return http.StatusInternalServerError

	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, service.ErrAdminRequired):
		return http.StatusForbidden

	// Not found errors
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case store.IsDuplicateError(err),
		errors.Is(err, store.ErrInUse),
		errors.Is(err, service.ErrVersionConflict):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, shared.ErrInvalidJSON),
		errors.As(err, &fieldErrs):
		return http.StatusBadRequest

	case errors.Is(err, store.ErrPresignUnsupported):
		return http.StatusNotImplemented

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return unexpectedErrorMessage
	}

	var storageErr *service.StorageError
	var validationErr *domain.ValidationError
	var fieldErrs validator.ValidationErrors

	switch {
	case errors.As(err, &storageErr):
		return "Failed to store images"

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrMissingToken):
		return "Authentication required"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, domain.ErrUnauthorized):
		return "Authentication required"

	case errors.Is(err, service.ErrNotOwned):
		return "You do not own this resource"
	case errors.Is(err, service.ErrAdminRequired):
		return "Admin privileges required"

	case errors.Is(err, store.ErrPublicationNotFound):
		return "Publication not found"
	case errors.Is(err, store.ErrImageNotFound):
		return "Image not found"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrCategoryNotFound):
		return "Category not found"
	case errors.Is(err, store.ErrBrandNotFound):
		return "Brand not found"
	case errors.Is(err, store.ErrCommentNotFound):
		return "Comment not found"
	case errors.Is(err, store.ErrLikeNotFound):
		return "Like not found"
	case store.IsNotFoundError(err):
		return "Resource not found"

	case errors.Is(err, store.ErrUsernameExists):
		return "Username already exists"
	case errors.Is(err, store.ErrCategoryExists):
		return "Category already exists"
	case errors.Is(err, store.ErrBrandExists):
		return "Brand already exists"
	case errors.Is(err, store.ErrLikeExists):
		return "Already liked"
	case errors.Is(err, store.ErrInUse):
		return "Resource is still in use"
	case errors.Is(err, service.ErrVersionConflict):
		return "Publication was modified by another request; reload and retry"

	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.As(err, &fieldErrs):
		return SanitizeValidationError(fieldErrs)
	case errors.Is(err, shared.ErrInvalidJSON):
		return "Invalid request format"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, store.ErrPresignUnsupported):
		return "Direct uploads are not available"

	default:
		return unexpectedErrorMessage
	}
}

// SanitizeValidationError turns validator field errors into a short message
// naming the first offending field.
func SanitizeValidationError(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return "Validation error"
	}
	fe := errs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "uuid":
		return "invalid identifier"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status and safe message for err and logs the details.
// fallback replaces the generic message of 5xx responses when not empty.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status >= http.StatusInternalServerError && status != http.StatusNotImplemented && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
