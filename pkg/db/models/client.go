package models

import (
	"time"

	"github.com/google/uuid"
)

// Client represents a registered retail customer.
type Client struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string     `gorm:"column:name;not null"`
	Email     *string    `gorm:"column:email;uniqueIndex"`
	Phone     *string    `gorm:"column:phone"`
	Address   *string    `gorm:"column:address"`
	Notes     *string    `gorm:"column:notes"`
	IsActive  bool       `gorm:"column:is_active;not null;default:true"`
	Orders    []Order    `gorm:"foreignKey:ClientID"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt *time.Time `gorm:"column:deleted_at;index"`
}
