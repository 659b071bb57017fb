package users

import (
	"time"

	"github.com/kunalsaini/authline-backend/pkg/db/models"
	"github.com/kunalsaini/authline-backend/pkg/enums"
)

// UserDTO exposes safe account data in API responses. The password hash never
// leaves the persistence layer.
type UserDTO struct {
	UserID    string       `json:"userId"`
	FirstName string       `json:"firstName"`
	LastName  string       `json:"lastName"`
	Mobile    string       `json:"mobile"`
	Gender    enums.Gender `json:"gender"`
	Country   string       `json:"country"`
	State     string       `json:"state"`
	City      string       `json:"city"`
	LiveImage string       `json:"liveImage,omitempty"`
	Role      enums.Role   `json:"role"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// CreateUserDTO holds creation-time data for a new account. PasswordHash must
// already be hashed by the caller.
type CreateUserDTO struct {
	UserID       string
	FirstName    string
	LastName     string
	Mobile       string
	PasswordHash string
	Gender       enums.Gender
	Country      string
	State        string
	City         string
	LiveImage    string
	ImageHandle  string
	Role         enums.Role
}

// ToModel maps the DTO into a persistable user row.
func (d CreateUserDTO) ToModel() *models.User {
	return &models.User{
		UserID:       d.UserID,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Mobile:       d.Mobile,
		PasswordHash: d.PasswordHash,
		Gender:       d.Gender,
		Country:      d.Country,
		State:        d.State,
		City:         d.City,
		LiveImage:    d.LiveImage,
		ImageHandle:  d.ImageHandle,
		Role:         d.Role,
	}
}

// UpdateUserInput captures the account fields an admin may mutate. Nil fields
// are left untouched.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Mobile    *string
	Password  *string
	Gender    *enums.Gender
	Country   *string
	State     *string
	City      *string
	Role      *enums.Role
}

// DashboardStats is the payload behind the dashboard endpoint. The monthly
// series is a fixed mapping of short month names to registration counts.
type DashboardStats struct {
	TotalUsers       int64            `json:"totalUsers"`
	MonthlyUserStats map[string]int64 `json:"monthlyUserStats"`
}

// FromModel maps the persisted user into a DTO.
func FromModel(m *models.User) *UserDTO {
	if m == nil {
		return nil
	}
	return &UserDTO{
		UserID:    m.UserID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Mobile:    m.Mobile,
		Gender:    m.Gender,
		Country:   m.Country,
		State:     m.State,
		City:      m.City,
		LiveImage: m.LiveImage,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
