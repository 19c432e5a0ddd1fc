package models

import (
	"time"

	"gorm.io/datatypes"
)

type Job struct {
	BaseModel
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Budget      float64   `json:"budget"`
	Address     string    `gorm:"type:varchar(512)" json:"address"`
	Status      JobStatus `gorm:"type:varchar(32);default:'Pending';not null" json:"status"`
	DateCreated time.Time `gorm:"column:date_created;autoCreateTime" json:"date_created"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`

	// Relations
	Polygons []Polygon `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"polygons,omitempty"`
	Folders  []Folder  `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
	Files    []File    `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
}

// Polygon хранит один GeoJSON-объект, привязанный к работе. Строки не изменяются после вставки.
type Polygon struct {
	BaseModel
	JobID   uint           `gorm:"not null;index" json:"job_id"`
	GeoJSON datatypes.JSON `gorm:"column:geojson;not null" json:"geojson"`
}
