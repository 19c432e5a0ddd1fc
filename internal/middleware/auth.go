package middleware

import (
	"strings"

	"skyjobs/internal/appErrors"
	"skyjobs/internal/logger"
	"skyjobs/internal/services"
	"skyjobs/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthMiddleware проверяет bearer JWT и заново загружает пользователя.
// Любая ошибка прерывает запрос.
func AuthMiddleware(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		authHeader := c.GetHeader("Authorization")
		tokenStr, found := strings.CutPrefix(authHeader, "Bearer ")
		tokenStr = strings.TrimSpace(tokenStr)
		if !found || tokenStr == "" {
			appErrors.HandleError(c, appErrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		db, ok := c.MustGet(string(contextkeys.DBContextKey)).(*gorm.DB)
		if !ok {
			appErrors.HandleError(c, appErrors.InternalError(nil))
			return
		}

		user, err := authService.Authenticate(ctx, db, tokenStr)
		if err != nil {
			if appErrors.Is(err, appErrors.ErrInvalidToken) {
				logger.CtxWarn(ctx, "Rejected bearer token", "path", c.Request.URL.Path, "ip", c.ClientIP())
			}
			appErrors.HandleError(c, appErrors.FromError(err))
			return
		}

		c.Set(contextkeys.UserIDKey, user.ID)
		c.Set(contextkeys.AccountTypeKey, user.AccountType)
		c.Set(contextkeys.UserKey, user)
		c.Request = c.Request.WithContext(logger.WithUserID(ctx, user.ID))
		c.Next()
	}
}
