package dto

import "skyjobs/internal/models"

type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=64"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	Email       string `json:"email" validate:"required,email,max=255"`
	AccountType string `json:"accountType" validate:"required,is-registrable-account-type"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResponse - публичное представление пользователя, без пароля и токена подтверждения
type UserResponse struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	AccountType string `json:"accountType"`
	Confirmed   bool   `json:"confirmed"`
}

type LoginResponse struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message"`
	Token     string       `json:"token"`
	// ExpiresIn - срок жизни токена в секундах
	ExpiresIn int64        `json:"expiresIn"`
	User      UserResponse `json:"user"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		AccountType: string(u.AccountType),
		Confirmed:   u.Confirmed,
	}
}
