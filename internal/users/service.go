package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kunalsaini/authline-backend/pkg/config"
	"github.com/kunalsaini/authline-backend/pkg/db"
	"github.com/kunalsaini/authline-backend/pkg/db/models"
	"github.com/kunalsaini/authline-backend/pkg/enums"
	pkgerrors "github.com/kunalsaini/authline-backend/pkg/errors"
	"github.com/kunalsaini/authline-backend/pkg/logger"
	"github.com/kunalsaini/authline-backend/pkg/security"
	"gorm.io/gorm"
)

type userRepository interface {
	Create(ctx context.Context, dto CreateUserDTO) (*models.User, error)
	FindByExternalID(ctx context.Context, userID string) (*models.User, error)
	FindByPhone(ctx context.Context, mobile string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	SoftDelete(ctx context.Context, userID string) error
	List(ctx context.Context, excludeRoles ...enums.Role) ([]models.User, error)
	CountAll(ctx context.Context) (int64, error)
	CountsByCreationMonth(ctx context.Context) (map[string]int64, error)
}

type imageRemover interface {
	Delete(ctx context.Context, handle string) error
}

// Service exposes account management and dashboard operations.
type Service interface {
	Create(ctx context.Context, input CreateUserInput) (*UserDTO, error)
	GetByExternalID(ctx context.Context, userID string) (*UserDTO, error)
	Update(ctx context.Context, userID string, input UpdateUserInput) (*UserDTO, error)
	Delete(ctx context.Context, userID string) error
	List(ctx context.Context) ([]UserDTO, error)
	DashboardStats(ctx context.Context) (*DashboardStats, error)
}

// CreateUserInput captures the data required to register an account. Password
// arrives in clear text and is hashed before persistence, unless it is
// already an encoded hash.
type CreateUserInput struct {
	FirstName   string
	LastName    string
	Mobile      string
	Password    string
	Gender      enums.Gender
	Country     string
	State       string
	City        string
	LiveImage   string
	ImageHandle string
	Role        enums.Role
}

type service struct {
	repo        userRepository
	images      imageRemover
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
	now         func() time.Time
}

// NewService builds the account service.
func NewService(repo userRepository, images imageRemover, passwordCfg config.PasswordConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{
		repo:        repo,
		images:      images,
		passwordCfg: passwordCfg,
		logg:        logg,
		now:         time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	if _, err := s.repo.FindByPhone(ctx, input.Mobile); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDuplicate, "mobile number already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking mobile uniqueness")
	}

	hash, err := s.ensureHashed(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = enums.RoleUser
	}

	user, err := s.repo.Create(ctx, CreateUserDTO{
		UserID:       NewExternalID(input.FirstName, s.now()),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Mobile:       input.Mobile,
		PasswordHash: hash,
		Gender:       input.Gender,
		Country:      input.Country,
		State:        input.State,
		City:         input.City,
		LiveImage:    input.LiveImage,
		ImageHandle:  input.ImageHandle,
		Role:         role,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeDuplicate, "mobile number already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating user")
	}
	return FromModel(user), nil
}

func (s *service) GetByExternalID(ctx context.Context, userID string) (*UserDTO, error) {
	user, err := s.findActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) Update(ctx context.Context, userID string, input UpdateUserInput) (*UserDTO, error) {
	user, err := s.findActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Mobile != nil && *input.Mobile != user.Mobile {
		if existing, err := s.repo.FindByPhone(ctx, *input.Mobile); err == nil && existing.ID != user.ID {
			return nil, pkgerrors.New(pkgerrors.CodeDuplicate, "mobile number already registered")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking mobile uniqueness")
		}
		user.Mobile = *input.Mobile
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Gender != nil {
		user.Gender = *input.Gender
	}
	if input.Country != nil {
		user.Country = *input.Country
	}
	if input.State != nil {
		user.State = *input.State
	}
	if input.City != nil {
		user.City = *input.City
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := s.ensureHashed(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeDuplicate, "mobile number already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating user")
	}
	return FromModel(user), nil
}

func (s *service) Delete(ctx context.Context, userID string) error {
	user, err := s.findActive(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting user")
	}

	// Hosted selfies of deleted accounts are cleaned up best effort; the
	// account removal itself already succeeded.
	if s.images != nil && user.ImageHandle != "" {
		if err := s.images.Delete(ctx, user.ImageHandle); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"user_id": userID}), "failed to delete hosted image")
		}
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]UserDTO, error) {
	accounts, err := s.repo.List(ctx, enums.RoleAdmin)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing users")
	}

	dtos := make([]UserDTO, 0, len(accounts))
	for i := range accounts {
		dtos = append(dtos, *FromModel(&accounts[i]))
	}
	return dtos, nil
}

func (s *service) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting users")
	}

	series, err := s.repo.CountsByCreationMonth(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregating registrations")
	}

	return &DashboardStats{
		TotalUsers:       total,
		MonthlyUserStats: series,
	}, nil
}

func (s *service) findActive(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.FindByExternalID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}
	return user, nil
}

// ensureHashed hashes clear-text secrets and passes encoded hashes through
// untouched so repeated saves never double-hash.
func (s *service) ensureHashed(password string) (string, error) {
	if security.IsHashed(password) {
		return password, nil
	}
	hash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}
	return hash, nil
}
