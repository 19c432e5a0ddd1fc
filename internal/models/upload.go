package models

import (
	"time"
)

type Folder struct {
	BaseModel
	JobID uint   `gorm:"not null;index" json:"job_id"`
	Name  string `gorm:"type:varchar(255);not null" json:"name"`
	Timestamped

	Files []File `gorm:"foreignKey:FolderID;constraint:OnDelete:CASCADE" json:"-"`
}

// File - файл работы. Path - ключ в хранилище относительно корня загрузок.
type File struct {
	BaseModel
	JobID       uint      `gorm:"not null;index" json:"job_id"`
	FolderID    uint      `gorm:"not null;index" json:"folder_id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Path        string    `gorm:"type:varchar(512);not null" json:"path"`
	Size        int64     `json:"size"`
	ContentType string    `gorm:"type:varchar(127)" json:"content_type"`
	UploadedAt  time.Time `gorm:"autoCreateTime" json:"uploaded_at"`

	URL string `gorm:"-" json:"url,omitempty"`
}

// CertFile - документ сертификации пилота
type CertFile struct {
	BaseModel
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Path        string    `gorm:"type:varchar(512);not null" json:"path"`
	Size        int64     `json:"size"`
	ContentType string    `gorm:"type:varchar(127)" json:"content_type"`
	UploadedAt  time.Time `gorm:"autoCreateTime" json:"uploaded_at"`

	URL string `gorm:"-" json:"url,omitempty"`
}
