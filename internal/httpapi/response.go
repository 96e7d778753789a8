package httpapi

import (
	"errors"
	"net/http"

	"airwaves/messaging-service/internal/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type errorResponse struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

func statusOf(err error) int {
	switch apperrors.CodeOf(err) {
	case apperrors.CodeInvalidArgument:
		return http.StatusBadRequest
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeAlreadyExists:
		return http.StatusConflict
	case apperrors.CodePermissionDenied:
		return http.StatusForbidden
	case apperrors.CodeUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	case apperrors.CodeMediaUpload:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(err error) errorResponse {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return errorResponse{Code: appErr.Code, Message: appErr.Message}
	}
	return errorResponse{Code: apperrors.CodeInternal, Message: "internal server error"}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusOf(err), gin.H{"error": errorBody(err)})
}

func respondAndAbort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusOf(err), gin.H{"error": errorBody(err)})
}

// bindingError turns a bind or validation failure into a validation error.
func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperrors.Validation(fe.Field() + " failed on the '" + fe.Tag() + "' rule")
	}
	return apperrors.Validation("invalid request body")
}
