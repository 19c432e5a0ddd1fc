package handlers

import (
	"fmt"
	"strconv"

	"skyjobs/internal/appErrors"
	"skyjobs/internal/logger"
	"skyjobs/internal/models"
	"skyjobs/internal/validator"
	"skyjobs/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ============================================================================
// 1. Базовая структура обработчика
// ============================================================================

type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{
		validator: v,
	}
}

// GetDB извлекает *gorm.DB (пул или транзакцию) из gin.Context.
// Вызывается в каждом хендлере, который обращается к сервисам.
func (h *BaseHandler) GetDB(c *gin.Context) *gorm.DB {
	dbKey := string(contextkeys.DBContextKey)

	val, ok := c.Get(dbKey)
	if !ok {
		logger.CtxError(c.Request.Context(), "critical error: db key not found in context", "key", dbKey)
		panic("critical error: DBMiddleware did not set the db key")
	}

	db, ok := val.(*gorm.DB)
	if !ok {
		logger.CtxError(c.Request.Context(), "critical error: db in context is not *gorm.DB", "key", dbKey, "type", fmt.Sprintf("%T", val))
		panic("critical error: db in context has incorrect type")
	}

	return db
}

// ============================================================================
// 2. Привязка и валидация
// ============================================================================

func (h *BaseHandler) BindAndValidate_JSON(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindJSON(obj); err != nil {
		logger.CtxWarn(ctx, "Failed to bind JSON body", "error", err.Error(), "path", c.Request.URL.Path)
		appErrors.HandleError(c, appErrors.NewBadRequestError("Invalid request body"))
		return false
	}

	return h.validate(c, obj)
}

func (h *BaseHandler) validate(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := h.validator.Validate(obj); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			logger.CtxWarn(ctx, "Validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
			appErrors.HandleError(c, appErrors.ValidationError(vErr.Errors))
		} else {
			logger.CtxWithError(ctx, "Internal validator error", err, "path", c.Request.URL.Path)
			appErrors.HandleError(c, appErrors.InternalError(err))
		}
		return false
	}
	return true
}

// ============================================================================
// 3. Обработка ошибок
// ============================================================================

func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var appErr *appErrors.AppError
	if appErrors.As(err, &appErr) {
		if appErr.HTTPCode < 500 {
			logger.CtxWarn(ctx, "Service error",
				"code", appErr.Code,
				"error", appErr.Message,
				"path", c.Request.URL.Path,
			)
		}
		appErrors.HandleError(c, appErr)
		return
	}

	appErrors.HandleError(c, appErrors.InternalError(err))
}

// ============================================================================
// 4. Текущий пользователь
// ============================================================================

// CurrentUser возвращает пользователя, которого положил AuthMiddleware
func (h *BaseHandler) CurrentUser(c *gin.Context) (*models.User, bool) {
	val, exists := c.Get(contextkeys.UserKey)
	if !exists {
		logger.CtxWarn(c.Request.Context(), "Unauthorized access: user not found in context",
			"path", c.Request.URL.Path,
			"ip", c.ClientIP(),
		)
		appErrors.HandleError(c, appErrors.ErrUnauthorized)
		return nil, false
	}

	user, ok := val.(*models.User)
	if !ok || user == nil {
		appErrors.HandleError(c, appErrors.ErrUnauthorized)
		return nil, false
	}
	return user, true
}

// GetAndAuthorizeUserID сверяет запрошенный userId с аутентифицированным пользователем.
// nil означает "текущий пользователь".
func (h *BaseHandler) GetAndAuthorizeUserID(c *gin.Context, requested *uint) (uint, bool) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return 0, false
	}

	if requested != nil && *requested != user.ID {
		logger.CtxWarn(c.Request.Context(), "Forbidden: userId does not match token",
			"requested", *requested,
			"path", c.Request.URL.Path,
		)
		appErrors.HandleError(c, appErrors.NewForbiddenError("You can only access your own resources"))
		return 0, false
	}
	return user.ID, true
}

// ============================================================================
// 5. Парсинг параметров
// ============================================================================

func ParseParamUint(c *gin.Context, key string) (uint, error) {
	valueStr := c.Param(key)
	if valueStr == "" {
		return 0, appErrors.NewBadRequestError("Missing required path parameter: " + key)
	}
	value, err := strconv.ParseUint(valueStr, 10, 32)
	if err != nil || value == 0 {
		return 0, appErrors.NewBadRequestError("Invalid path parameter: " + key + " is not a positive integer")
	}
	return uint(value), nil
}

// ParseQueryUint возвращает nil, если параметр не передан
func ParseQueryUint(c *gin.Context, key string) (*uint, error) {
	valueStr := c.Query(key)
	if valueStr == "" {
		return nil, nil
	}
	value, err := strconv.ParseUint(valueStr, 10, 32)
	if err != nil {
		return nil, appErrors.NewBadRequestError("Invalid query parameter: " + key + " is not an integer")
	}
	v := uint(value)
	return &v, nil
}
