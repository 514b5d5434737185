package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"campus-kpi-tracker/internal/models"

	"gorm.io/gorm"
)

// GetUserByEmail looks a user up case-insensitively
func (gdb *GormDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := gdb.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// UpsertUser creates the user or replaces name, hash and role of an existing email
func (gdb *GormDB) UpsertUser(ctx context.Context, u *models.User) (created bool, err error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	err = gdb.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		res := tx.Where("email = ?", u.Email).First(&existing)
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			created = true
			return tx.Create(u).Error
		} else if res.Error != nil {
			return res.Error
		}

		u.ID = existing.ID
		u.CreatedAt = existing.CreatedAt
		return tx.Save(u).Error
	})
	if err != nil {
		return false, fmt.Errorf("upsert user %s: %w", u.Email, err)
	}
	return created, nil
}

func (gdb *GormDB) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := gdb.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
