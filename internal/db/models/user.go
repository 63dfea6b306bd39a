package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Gender represents a user's self-declared gender.
type Gender string

const (
	// GenderMale is the male gender choice.
	GenderMale Gender = "male"
	// GenderFemale is the female gender choice.
	GenderFemale Gender = "female"
)

// TradeRole represents the commercial role a user signs up with.
// It maps one-to-one onto the bootstrap groups of the same name.
type TradeRole string

const (
	// TradeRoleBuyer is the default customer role.
	TradeRoleBuyer TradeRole = "buyer"
	// TradeRoleSeller marks users allowed to list products.
	TradeRoleSeller TradeRole = "seller"
	// TradeRoleAdmin is the administrative role, assigned manually.
	TradeRoleAdmin TradeRole = "admin"
)

// User represents a principal in the system.
// A user registers with an email and a phone number, stays inactive and
// unverified until the one-time passcode flow completes, and derives the
// effective permission set from direct grants, direct policies, and
// memberships in active groups.
type User struct {
	// ID is the unique identifier for the user.
	ID uuid.UUID `gorm:"type:char(36);primaryKey"`
	// Active indicates whether the account may log in.
	Active bool
	// Verified indicates whether the OTP verification flow completed.
	// An authenticated but unverified user is never authorized.
	Verified bool
	// Superuser bypasses all permission checks.
	Superuser bool
	// FirstName is the user's given name.
	FirstName string `gorm:"size:100"`
	// LastName is the user's family name.
	LastName string `gorm:"size:100"`
	// PhoneNumber is the E.164 phone number used as an OTP subject.
	PhoneNumber string `gorm:"size:13;index"`
	// Email is the user's email address, used for login and OTP delivery.
	Email string `gorm:"size:255;index"`
	// Password is the Argon2id hashed password.
	Password string `gorm:"size:255"`
	// Gender is the user's declared gender (male or female).
	Gender Gender `gorm:"type:varchar(10)"`
	// TradeRole is the commercial role chosen at registration. The matching
	// group is attached once the account is verified.
	TradeRole TradeRole `gorm:"type:varchar(10)"`
	// LastLogin is the timestamp of the last successful authentication.
	LastLogin *time.Time
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
	// DeletedAt is the soft delete timestamp (managed by GORM).
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return u.LastName + " " + u.FirstName
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
// It uses the default Argon2id parameters for secure password hashing.
func HashPassword(password string) string {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatal().Msgf("failed to hash password: %v", err)
	}

	return hashedPassword
}

// VerifyPassword verifies a plaintext password against the user's stored
// hashed password. Returns true if the password matches.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Msgf("failed to verify password: %v", err)
		return false
	}

	return match
}
