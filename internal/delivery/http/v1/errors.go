package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-daily-todo/internal/services"
)

var (
	errInvalidRequestBody      = errors.New("invalid request body")
	errInvalidTaskID           = errors.New("invalid task id")
	errMandatoryCookieNotFound = errors.New("mandatory cookie not found")
	errAuthorizationRequired   = errors.New("authorization required")
	errInvalidAccessToken      = errors.New("invalid access token")
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

func newConflictError(message string) apiError {
	return newAPIError(http.StatusConflict, message)
}

// newServiceError maps a service error to the response returned to the
// client. Storage failures never leak their details.
func newServiceError(err error) apiError {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInvalidDate):
		return newBadRequestError(err.Error())
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrSessionExpired):
		return newUnauthorizedError(err.Error())
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrUserNotFound):
		return newNotFoundError(err.Error())
	case errors.Is(err, services.ErrUserAlreadyExists):
		return newConflictError(err.Error())
	case errors.Is(err, services.ErrStorageUnavailable):
		return newAPIError(http.StatusServiceUnavailable, services.ErrStorageUnavailable.Error())
	default:
		return newStatusTextError(http.StatusInternalServerError)
	}
}
