package user

import (
	"time"

	"github.com/google/uuid"
)

// Profile shares its id with the auth user.
// LastActiveDate is a UTC calendar day in YYYY-MM-DD form.
type Profile struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName       string    `gorm:"type:text;not null;default:''" json:"full_name"`
	Email          string    `gorm:"type:text;not null;default:''" json:"email"`
	Role           string    `gorm:"type:text;not null;default:''" json:"role"`
	Bio            string    `gorm:"type:text;not null;default:''" json:"bio"`
	StreakDays     int       `gorm:"not null;default:0" json:"streak_days"`
	LastActiveDate string    `gorm:"type:text;not null;default:''" json:"last_active_date"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

const DateLayout = "2006-01-02"
