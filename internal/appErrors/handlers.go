package appErrors

import (
	"net/http"

	"skyjobs/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Success bool        `json:"success"`
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// HandleError пишет ответ об ошибке в gin.Context.
// Текст внутренних причин наружу не отдается, только в лог.
func HandleError(c *gin.Context, err *AppError) {
	if err.HTTPCode >= http.StatusInternalServerError {
		cause := error(err)
		if err.Err != nil {
			cause = err.Err
		}
		logger.CtxWithError(c.Request.Context(), "Server error", cause,
			"code", err.Code,
			"path", c.Request.URL.Path,
		)
	}

	c.AbortWithStatusJSON(err.HTTPCode, ErrorResponse{
		Success: false,
		Code:    err.Code,
		Message: err.Message,
		Details: err.Details,
	})
}

// FromError приводит любую ошибку к *AppError; неизвестные становятся INTERNAL_ERROR
func FromError(err error) *AppError {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr
	}
	return InternalError(err)
}
