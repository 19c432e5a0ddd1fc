package models

import (
	"time"
)

// BaseModel - целочисленный автоинкрементный ключ, общий для всех таблиц
type BaseModel struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`
}

// Timestamped добавляет created_at туда, где он нужен
type Timestamped struct {
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
