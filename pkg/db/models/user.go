package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/kunalsaini/authline-backend/pkg/enums"
	"gorm.io/gorm"
)

// User represents one registered principal. UserID is the stable external
// identifier surfaced to clients; ID stays internal to storage.
type User struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey"`
	UserID       string       `gorm:"column:user_id;not null;uniqueIndex"`
	FirstName    string       `gorm:"column:first_name;not null"`
	LastName     string       `gorm:"column:last_name;not null"`
	Mobile       string       `gorm:"column:mobile;not null;uniqueIndex"`
	PasswordHash string       `gorm:"column:password_hash;not null"`
	Gender       enums.Gender `gorm:"column:gender;not null"`
	Country      string       `gorm:"column:country;not null"`
	State        string       `gorm:"column:state;not null"`
	City         string       `gorm:"column:city;not null"`
	LiveImage    string       `gorm:"column:live_image"`
	ImageHandle  string       `gorm:"column:image_handle"`
	Role         enums.Role   `gorm:"column:role;not null;default:user"`
	IsDeleted    bool         `gorm:"column:is_deleted;not null;default:false"`
	CreatedAt    time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the storage key so the model works on both Postgres
// and the sqlite test databases.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
