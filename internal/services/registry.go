package services

import (
	"skyjobs/internal/auth"
	"skyjobs/internal/email"
	"skyjobs/internal/repositories"
	"skyjobs/internal/storage"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService   AuthService
	JobService    JobService
	UploadService UploadService
	EmailService  email.Provider
	Storage       storage.Storage
}

// Dependencies - внешние зависимости, из которых собираются сервисы
type Dependencies struct {
	Tokens  *auth.TokenManager
	Email   email.Provider
	Storage storage.Storage
	Auth    AuthOptions
	Upload  UploadOptions
}

// NewServiceContainer создает репозитории и связывает с ними сервисы
func NewServiceContainer(deps Dependencies) *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	jobRepo := repositories.NewJobRepository()
	polygonRepo := repositories.NewPolygonRepository()
	folderRepo := repositories.NewFolderRepository()
	fileRepo := repositories.NewFileRepository()
	certRepo := repositories.NewCertFileRepository()

	return &ServiceContainer{
		AuthService:   NewAuthService(userRepo, deps.Tokens, deps.Email, deps.Auth),
		JobService:    NewJobService(jobRepo, polygonRepo, folderRepo, fileRepo, deps.Storage),
		UploadService: NewUploadService(folderRepo, fileRepo, certRepo, deps.Storage, deps.Upload),
		EmailService:  deps.Email,
		Storage:       deps.Storage,
	}
}
