package users

import (
	"context"
	"time"

	"github.com/kunalsaini/authline-backend/pkg/config"
	"github.com/kunalsaini/authline-backend/pkg/db/models"
	"github.com/kunalsaini/authline-backend/pkg/enums"
	pkgerrors "github.com/kunalsaini/authline-backend/pkg/errors"
	"github.com/kunalsaini/authline-backend/pkg/logger"
	"github.com/kunalsaini/authline-backend/pkg/security"
)

type bootstrapRepository interface {
	HasRole(ctx context.Context, role enums.Role) (bool, error)
	Create(ctx context.Context, dto CreateUserDTO) (*models.User, error)
}

// EnsureAdmin seeds the configured admin account on startup when no admin
// exists yet. Re-running against a seeded database is a no-op, so restarts
// are safe.
func EnsureAdmin(ctx context.Context, repo bootstrapRepository, cfg config.AdminSeedConfig, passwordCfg config.PasswordConfig, logg *logger.Logger) error {
	exists, err := repo.HasRole(ctx, enums.RoleAdmin)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking for admin account")
	}
	if exists {
		return nil
	}

	password := cfg.Password
	generated := false
	if password == "" {
		password, err = security.GenerateTempPassword(16)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating admin password")
		}
		generated = true
	}

	hash, err := security.HashPassword(password, passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing admin password")
	}

	admin, err := repo.Create(ctx, CreateUserDTO{
		UserID:       NewExternalID(cfg.FirstName, time.Now()),
		FirstName:    cfg.FirstName,
		LastName:     cfg.LastName,
		Mobile:       cfg.Phone,
		PasswordHash: hash,
		Gender:       enums.GenderOther,
		Country:      "IN",
		State:        "NA",
		City:         "NA",
		Role:         enums.RoleAdmin,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating admin account")
	}

	fields := map[string]any{"user_id": admin.UserID, "mobile": admin.Mobile}
	if generated {
		// Logged exactly once; there is no other way to recover it.
		fields["temp_password"] = password
	}
	if logg != nil {
		logg.Info(logg.WithFields(ctx, fields), "seeded admin account")
	}
	return nil
}
