package dto

import "encoding/json"

// CreateJobRequest - тело POST /jobs. UserID необязателен: по умолчанию берется из токена.
type CreateJobRequest struct {
	Title       string            `json:"title" validate:"required,max=255"`
	Description string            `json:"description" validate:"max=10000"`
	Budget      float64           `json:"budget" validate:"gte=0"`
	Address     string            `json:"address" validate:"max=512"`
	Polygons    []json.RawMessage `json:"polygons" validate:"omitempty,dive,is-json-object"`
	UserID      *uint             `json:"userId"`
}

type CreateJobResponse struct {
	Success bool   `json:"success"`
	JobID   uint   `json:"jobId"`
	Message string `json:"message"`
}

// CreateFolderRequest - name проверяется в сервисе, чтобы пустое имя давало 400 до любых запросов к БД
type CreateFolderRequest struct {
	Name string `json:"name" validate:"max=255"`
}
