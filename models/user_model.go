package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username  string `json:"username" gorm:"uniqueIndex;not null" validate:"required,min=3"`
	Name      string `json:"name" gorm:"not null" validate:"required,min=3"`
	Email     string `json:"email" gorm:"uniqueIndex"`
	Password  string `json:"-" gorm:"not null"`
	CreatedBy int
	UpdatedBy int
}

type LoginLog struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"index"`
	SessionID string `json:"session_id" gorm:"index"`
	LoginAt   time.Time
	LogoutAt  *time.Time
}
