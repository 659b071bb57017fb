package users

import (
	"context"

	"github.com/kunalsaini/authline-backend/pkg/db/models"
	"github.com/kunalsaini/authline-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository exposes account persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new account and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByExternalID loads an active account by its public identifier. Soft
// deleted rows are invisible here.
func (r *Repository) FindByExternalID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByPhone retrieves the account holding the given mobile number. Soft
// deleted rows are included on purpose: a deleted user's number stays
// reserved and must still fail signup.
func (r *Repository) FindByPhone(ctx context.Context, mobile string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("mobile = ?", mobile).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update saves the provided account. The phone re-check runs in the same
// transaction as the save so a registration racing between the caller's
// uniqueness check and this write still fails cleanly.
func (r *Repository) Update(ctx context.Context, user *models.User) error {
	if user == nil {
		return gorm.ErrInvalidValue
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var holders int64
		if err := tx.Model(&models.User{}).
			Where("mobile = ? AND user_id <> ?", user.Mobile, user.UserID).
			Count(&holders).Error; err != nil {
			return err
		}
		if holders > 0 {
			return gorm.ErrDuplicatedKey
		}
		return tx.Save(user).Error
	})
}

// SoftDelete flags the account as deleted without removing the row.
func (r *Repository) SoftDelete(ctx context.Context, userID string) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Update("is_deleted", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns active accounts, newest first, skipping the given roles.
func (r *Repository) List(ctx context.Context, excludeRoles ...enums.Role) ([]models.User, error) {
	query := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("created_at DESC")
	if len(excludeRoles) > 0 {
		query = query.Where("role NOT IN ?", excludeRoles)
	}

	var accounts []models.User
	if err := query.Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// CountAll returns the total number of accounts, soft deleted included. The
// dashboard reports this figure so it stays the sum of the monthly series.
func (r *Repository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Count(&count).Error
	return count, err
}

// HasRole reports whether any active account holds the given role.
func (r *Repository) HasRole(ctx context.Context, role enums.Role) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ? AND is_deleted = ?", role, false).
		Count(&count).Error
	return count > 0, err
}

type monthRow struct {
	Month int
	Total int64
}

var monthAbbrevs = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// CountsByCreationMonth aggregates registrations into a fixed Jan..Dec
// mapping, bucketing across all years and counting deleted accounts too.
// Months without signups report zero.
func (r *Repository) CountsByCreationMonth(ctx context.Context) (map[string]int64, error) {
	monthExpr := "EXTRACT(MONTH FROM created_at)::int"
	if r.db.Dialector.Name() == "sqlite" {
		monthExpr = "CAST(strftime('%m', created_at) AS INTEGER)"
	}

	var rows []monthRow
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select(monthExpr + " AS month, COUNT(*) AS total").
		Group("month").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	series := make(map[string]int64, len(monthAbbrevs))
	for _, name := range monthAbbrevs {
		series[name] = 0
	}
	for _, row := range rows {
		if row.Month >= 1 && row.Month <= 12 {
			series[monthAbbrevs[row.Month-1]] = row.Total
		}
	}
	return series, nil
}
