package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	FullName   string     `gorm:"column:full_name;type:varchar(255)"`
	Email      string     `gorm:"column:email;type:text;not null;uniqueIndex"`
	TeamLeadID *uuid.UUID `gorm:"column:team_lead_id;type:uuid;index"`
	IsActive   bool       `gorm:"column:is_active;default:true"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// UserRole grants one organisational role to a user. A user may hold several.
type UserRole struct {
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	Role   string    `gorm:"column:role;type:varchar(50);primaryKey"`
}

func (UserRole) TableName() string {
	return "user_roles"
}
