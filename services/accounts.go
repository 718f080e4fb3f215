package services

import (
	"context"
	"errors"
	"fmt"

	"detailstudio-backend/models"
	"detailstudio-backend/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EnsureAdmin creates the bootstrap administrator when no admin with that
// email exists. An existing account is left untouched.
func EnsureAdmin(ctx context.Context, db *gorm.DB, name, email, password string) (bool, error) {
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return false, nil
	}

	var existing models.Admin
	err := db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("look up admin: %w", err)
	}

	admin := models.Admin{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     models.RoleSuperAdmin,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	zap.L().Info("Admin account created", zap.String("email", email))
	return true, nil
}
