package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/GoMarket-Shop/GoMarket/internal/db/models"
)

// Authenticate checks credentials against the local database. The login can
// be an email address (contains "@") or a phone number. Only active AND
// verified accounts may authenticate; every failure mode collapses into
// ErrAuthenticationFailed so callers cannot distinguish a wrong password
// from a disabled account.
func Authenticate(db *gorm.DB, login, password string) (*models.User, error) {
	field := "phone_number"
	if strings.Contains(login, "@") {
		field = "email"
	}

	var user models.User

	err := db.Where(field+" = ?", login).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAuthenticationFailed
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !user.VerifyPassword(password) {
		return nil, ErrAuthenticationFailed
	}

	if !user.Active || !user.Verified {
		return nil, ErrAuthenticationFailed
	}

	now := time.Now()
	user.LastLogin = &now
	db.Model(&models.User{}).Where("id = ?", user.ID).Update("last_login", now)

	return &user, nil
}
