package auth

import (
	"context"
	"errors"
	"strings"

	"classbook/internal/users"

	"gorm.io/gorm"
)

type Repository interface {
	CreateUser(ctx context.Context, user *users.User) error
	GetUserByEmail(ctx context.Context, email string) (*users.User, error)
	GetUserByID(ctx context.Context, id string) (*users.User, error)
	GetUserByConfirmationToken(ctx context.Context, token string) (*users.User, error)
	MarkConfirmed(ctx context.Context, userID string) error
	EmailExists(ctx context.Context, email string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *repository) CreateUser(ctx context.Context, user *users.User) error {
	user.Email = normalizeEmail(user.Email)
	return translateCreateError(r.db.WithContext(ctx).Create(user).Error)
}

// translateCreateError maps the unique email index violation of a racing
// sign-up to ErrUserAlreadyExists
func translateCreateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrUserAlreadyExists
	}
	return err
}

func (r *repository) GetUserByEmail(ctx context.Context, email string) (*users.User, error) {
	return r.first(ctx, "email = ?", normalizeEmail(email))
}

func (r *repository) GetUserByID(ctx context.Context, id string) (*users.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *repository) GetUserByConfirmationToken(ctx context.Context, token string) (*users.User, error) {
	return r.first(ctx, "confirmation_token = ?", token)
}

func (r *repository) first(ctx context.Context, query string, arg interface{}) (*users.User, error) {
	var user users.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) MarkConfirmed(ctx context.Context, userID string) error {
	result := r.db.WithContext(ctx).Model(&users.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"confirmed":               true,
			"confirmation_token":      nil,
			"confirmation_expires_at": nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&users.User{}).Where("email = ?", normalizeEmail(email)).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
