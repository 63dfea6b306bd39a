package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/GoMarket-Shop/GoMarket/internal/db/models"
)

type registerRequest struct {
	Email           string `json:"email"            validate:"required,email"`
	PhoneNumber     string `json:"phone_number"     validate:"required,e164"`
	FirstName       string `json:"first_name"       validate:"required,max=100"`
	LastName        string `json:"last_name"        validate:"required,max=100"`
	Gender          string `json:"gender"           validate:"omitempty,oneof=male female"`
	TradeRole       string `json:"trade_role"       validate:"required,oneof=buyer seller"`
	Password        string `json:"password"         validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type registerResponse struct {
	PhoneNumber string `json:"phone_number"`
	OtpSecret   string `json:"otp_secret"`
}

type verifyRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,e164"`
	OtpCode     string `json:"otp_code"     validate:"required,len=6,numeric"`
}

type loginRequest struct {
	EmailOrPhone string `json:"email_or_phone" validate:"required"`
	Password     string `json:"password"       validate:"required"`
}

type tokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type forgotRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type forgotResponse struct {
	Email     string `json:"email"`
	OtpSecret string `json:"otp_secret"`
}

type resetRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	OtpCode     string `json:"otp_code"     validate:"required,len=6,numeric"`
	NewPassword string `json:"new_password" validate:"required"`
}

type updateMeRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name"  validate:"omitempty,max=100"`
	Gender    *string `json:"gender"     validate:"omitempty,oneof=male female"`
}

type profileResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phone_number"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Gender      string     `json:"gender"`
	TradeRole   string     `json:"trade_role"`
	Verified    bool       `json:"verified"`
	Active      bool       `json:"active"`
	LastLogin   *time.Time `json:"last_login"`
	CreatedAt   time.Time  `json:"created_at"`
}

func newProfileResponse(u *models.User) profileResponse {
	return profileResponse{
		ID:          u.ID,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Gender:      string(u.Gender),
		TradeRole:   string(u.TradeRole),
		Verified:    u.Verified,
		Active:      u.Active,
		LastLogin:   u.LastLogin,
		CreatedAt:   u.CreatedAt,
	}
}
