package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/portal-space/core/internal/models"
	"github.com/portal-space/core/internal/pkg/apperrors"
	"github.com/portal-space/core/internal/pkg/jwt"
)

const tokenTTL = 7 * 24 * time.Hour

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Login checks credentials and issues a JWT carrying the user's role.
func (s *Service) Login(ctx context.Context, username, password string) (string, *models.UserModel, error) {
	var user models.UserModel
	err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.Validationf("invalid username or password")
		}
		return "", nil, apperrors.Internal(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", nil, apperrors.Validationf("invalid username or password")
	}

	token, err := jwt.Sign(user.ID, user.Role, tokenTTL)
	if err != nil {
		return "", nil, apperrors.Internal(err)
	}
	return token, &user, nil
}

// CreateUser registers a user. Usernames are unique; unknown roles are
// rejected.
func (s *Service) CreateUser(ctx context.Context, username, name, password, role string) (*models.UserModel, error) {
	if role != models.RoleAdmin && role != models.RoleEditor {
		return nil, apperrors.Validationf("unknown role %q", role)
	}
	if len(password) < 8 {
		return nil, apperrors.Validationf("password must be at least 8 characters")
	}

	var n int64
	if err := s.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("username = ?", username).Count(&n).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	if n > 0 {
		return nil, apperrors.Conflictf("username %q is taken", username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user := models.UserModel{
		Username: username,
		Name:     name,
		Password: string(hash),
		Role:     role,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return &user, nil
}

// Whoami loads the authenticated user's profile.
func (s *Service) Whoami(ctx context.Context, userID string) (*models.UserModel, error) {
	var user models.UserModel
	err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("user %s not found", userID)
		}
		return nil, apperrors.Internal(err)
	}
	return &user, nil
}
