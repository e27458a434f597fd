package model

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Name         string         `json:"name" gorm:"not null;uniqueIndex"`
	Description  *string        `json:"description,omitempty"`
	IconURL      *string        `json:"icon_url,omitempty"`
	IsActive     bool           `json:"is_active" gorm:"not null;default:true"`
	DisplayOrder int            `json:"display_order" gorm:"not null;default:0"`
	Tests        []Test         `json:"tests,omitempty" gorm:"foreignKey:CategoryID"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
