package handlers

import (
	"skyjobs/internal/services"
	"skyjobs/internal/validator"
)

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler   *AuthHandler
	JobHandler    *JobHandler
	UploadHandler *UploadHandler
	HealthHandler *HealthHandler
}

func NewAppHandlers(svc *services.ServiceContainer) *AppHandlers {
	base := NewBaseHandler(validator.New())

	return &AppHandlers{
		AuthHandler:   NewAuthHandler(base, svc.AuthService),
		JobHandler:    NewJobHandler(base, svc.JobService),
		UploadHandler: NewUploadHandler(base, svc.UploadService),
		HealthHandler: NewHealthHandler(base),
	}
}
