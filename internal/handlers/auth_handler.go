package handlers

import (
	"net/http"

	"skyjobs/internal/services"
	"skyjobs/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
	}
}

// RegisterRoutes регистрирует маршруты аутентификации.
// authMW защищает только /me, остальное публичное.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
	rg.GET("/confirm/:token", h.ConfirmEmail)

	rg.GET("/me", authMW, h.GetCurrentUser)
}

// Register godoc
// @Summary Регистрация пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Данные регистрации"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} appErrors.ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	user, err := h.authService.Register(c.Request.Context(), db, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully. Please check your email to confirm your account.",
		"user":    dto.NewUserResponse(user),
	})
}

// Login godoc
// @Summary Вход
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Логин и пароль"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} appErrors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	response, err := h.authService.Login(c.Request.Context(), db, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ConfirmEmail godoc
// @Summary Подтверждение аккаунта по токену из письма
// @Tags auth
// @Produce json
// @Param token path string true "Токен подтверждения"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} appErrors.ErrorResponse
// @Router /confirm/{token} [get]
func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	db := h.GetDB(c)

	if err := h.authService.ConfirmEmail(c.Request.Context(), db, c.Param("token")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Account confirmed successfully",
	})
}

// GetCurrentUser - профиль владельца токена
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    dto.NewUserResponse(user),
	})
}
