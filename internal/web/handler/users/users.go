// Package users provides the identity endpoints: registration with OTP
// verification, login, logout, password recovery, and the own profile.
package users

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMarket-Shop/GoMarket/internal/auth"
	"github.com/GoMarket-Shop/GoMarket/internal/db/models"
	"github.com/GoMarket-Shop/GoMarket/internal/kv"
	"github.com/GoMarket-Shop/GoMarket/internal/token"
	"github.com/GoMarket-Shop/GoMarket/internal/web/handler"
)

const (
	// Path is the base path of the user endpoints.
	Path = handler.RootPath + "/users"

	// MinPasswordLength is the lower bound of the password policy.
	MinPasswordLength = 5
)

// Service implements the user endpoints.
type Service struct {
	handler.Service
	deps      *handler.Deps
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) {
	if app == nil || deps == nil {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return
	}

	s.deps = deps
	s.validator = validator.New()

	meOverrides := auth.Overrides{
		"get":   auth.PermViewUserMe,
		"patch": auth.PermChangeUserMe,
	}

	app.Post(Path+"/register", s.Register)
	app.Post(Path+"/register/verify/:otp_secret", s.Verify)
	app.Post(Path+"/login", s.Login)
	app.Post(Path+"/logout",
		auth.RequireAuth(deps.DB, deps.JWT),
		s.Logout,
	)
	app.Post(Path+"/password/forgot", s.PasswordForgot)
	app.Post(Path+"/password/reset/:otp_secret", s.PasswordReset)
	app.Get(Path+"/me",
		auth.RequireAuth(deps.DB, deps.JWT),
		auth.RequireModelPermission(deps.Auth, auth.ResourceUser, meOverrides),
		s.Me,
	)
	app.Patch(Path+"/me",
		auth.RequireAuth(deps.DB, deps.JWT),
		auth.RequireModelPermission(deps.Auth, auth.ResourceUser, meOverrides),
		s.UpdateMe,
	)
}

// checkPasswordPolicy enforces the minimum length and digit requirement.
func checkPasswordPolicy(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}

	for _, r := range password {
		if unicode.IsDigit(r) {
			return nil
		}
	}

	return errors.New("password must contain at least one digit")
}

// Register creates (or refreshes) an unverified account and starts the OTP
// verification flow. A pending passcode secret is returned as-is instead of
// issuing a second passcode for the same phone number.
func (s *Service) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "malformed request body")
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.MapError(c, err)
	}

	if err := checkPasswordPolicy(req.Password); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	var user models.User

	err := s.deps.DB.
		Where("email = ? OR phone_number = ?", req.Email, req.PhoneNumber).
		First(&user).Error

	switch {
	case err == nil && user.Verified:
		return handler.Error(c, fiber.StatusConflict, "an account with this email or phone number already exists")
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return handler.MapError(c, err)
	}

	// re-registration of an unverified account overwrites it
	user.Email = req.Email
	user.PhoneNumber = req.PhoneNumber
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Gender = models.Gender(req.Gender)
	user.TradeRole = models.TradeRole(req.TradeRole)
	user.Password = models.HashPassword(req.Password)
	user.Verified = false
	user.Active = false

	if err := s.deps.DB.Save(&user).Error; err != nil {
		return handler.MapError(c, err)
	}

	if secret, err := s.deps.OTP.PendingSecret(c.Context(), user.PhoneNumber); err == nil {
		return c.Status(fiber.StatusOK).JSON(registerResponse{
			PhoneNumber: user.PhoneNumber,
			OtpSecret:   secret,
		})
	} else if !errors.Is(err, kv.ErrKeyNotFound) {
		return handler.MapError(c, err)
	}

	code, secret, err := s.deps.OTP.Generate(c.Context(), user.PhoneNumber, s.deps.Cfg.OTP.TTL.Duration, false)
	if err != nil {
		return handler.MapError(c, err)
	}

	s.mailCode(&user, "Your verification code", code)

	return c.Status(fiber.StatusCreated).JSON(registerResponse{
		PhoneNumber: user.PhoneNumber,
		OtpSecret:   secret,
	})
}

// Verify completes registration: checks the passcode, activates the
// account, attaches the trade role group and issues the first token pair.
func (s *Service) Verify(c *fiber.Ctx) error {
	secret := c.Params("otp_secret")

	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "malformed request body")
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.MapError(c, err)
	}

	if err := s.deps.OTP.Check(c.Context(), req.PhoneNumber, req.OtpCode, secret); err != nil {
		return handler.MapError(c, err)
	}

	var user models.User
	if err := s.deps.DB.Where("phone_number = ?", req.PhoneNumber).First(&user).Error; err != nil {
		return handler.MapError(c, err)
	}

	user.Verified = true
	user.Active = true

	if err := s.deps.DB.Save(&user).Error; err != nil {
		return handler.MapError(c, err)
	}

	if err := s.attachTradeGroup(&user); err != nil {
		log.Error().Err(err).Str("user", user.ID.String()).Msg("attach trade role group failed")
	}

	if err := s.deps.OTP.Clear(c.Context(), req.PhoneNumber); err != nil {
		log.Error().Err(err).Msg("clear otp after verification failed")
	}

	pair, err := s.deps.JWT.IssuePair(c.Context(), &user)
	if err != nil {
		return handler.MapError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokenResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
	})
}

// attachTradeGroup links the user to the bootstrap group matching the
// chosen trade role.
func (s *Service) attachTradeGroup(user *models.User) error {
	var group models.Group
	if err := s.deps.DB.Where("name = ?", string(user.TradeRole)).First(&group).Error; err != nil {
		return fmt.Errorf("group %q: %w", user.TradeRole, err)
	}

	membership := models.UserGroup{UserID: user.ID, GroupID: group.ID}

	return s.deps.DB.FirstOrCreate(&membership, membership).Error
}

// Login authenticates by email or phone number and issues a token pair.
func (s *Service) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "malformed request body")
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.MapError(c, err)
	}

	user, err := auth.Authenticate(s.deps.DB, strings.TrimSpace(req.EmailOrPhone), req.Password)
	if err != nil {
		return handler.MapError(c, err)
	}

	pair, err := s.deps.JWT.IssuePair(c.Context(), user)
	if err != nil {
		return handler.MapError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokenResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
	})
}

// Logout deletes the tracked token sets of the current user. Every issued
// access and refresh token is invalid afterwards.
func (s *Service) Logout(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return handler.Error(c, fiber.StatusUnauthorized, "authentication failed")
	}

	for _, kind := range []token.Kind{token.KindAccess, token.KindRefresh} {
		if err := s.deps.Tokens.Delete(c.Context(), user.ID, kind); err != nil {
			return handler.MapError(c, err)
		}
	}

	return c.Status(fiber.StatusOK).JSON(handler.Detail{Detail: "logged out"})
}

// PasswordForgot starts the password recovery flow. A pending passcode for
// the same address is rejected with a retry hint.
func (s *Service) PasswordForgot(c *fiber.Ctx) error {
	var req forgotRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "malformed request body")
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.MapError(c, err)
	}

	var user models.User
	if err := s.deps.DB.Where("email = ? AND verified = ?", req.Email, true).First(&user).Error; err != nil {
		return handler.MapError(c, err)
	}

	code, secret, err := s.deps.OTP.Generate(c.Context(), user.Email, s.deps.Cfg.OTP.TTL.Duration, true)
	if err != nil {
		return handler.MapError(c, err)
	}

	s.mailCode(&user, "Your password reset code", code)

	return c.Status(fiber.StatusOK).JSON(forgotResponse{
		Email:     user.Email,
		OtpSecret: secret,
	})
}

// PasswordReset verifies the passcode, updates the password, and revokes
// every tracked token of the account.
func (s *Service) PasswordReset(c *fiber.Ctx) error {
	secret := c.Params("otp_secret")

	var req resetRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "malformed request body")
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.MapError(c, err)
	}

	if err := checkPasswordPolicy(req.NewPassword); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	if err := s.deps.OTP.Check(c.Context(), req.Email, req.OtpCode, secret); err != nil {
		return handler.MapError(c, err)
	}

	var user models.User
	if err := s.deps.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return handler.MapError(c, err)
	}

	user.Password = models.HashPassword(req.NewPassword)

	if err := s.deps.DB.Save(&user).Error; err != nil {
		return handler.MapError(c, err)
	}

	if err := s.deps.OTP.Clear(c.Context(), req.Email); err != nil {
		log.Error().Err(err).Msg("clear otp after password reset failed")
	}

	for _, kind := range []token.Kind{token.KindAccess, token.KindRefresh} {
		if err := s.deps.Tokens.Delete(c.Context(), user.ID, kind); err != nil {
			log.Error().Err(err).Msg("revoke tokens after password reset failed")
		}
	}

	return c.Status(fiber.StatusOK).JSON(handler.Detail{Detail: "password updated"})
}

// Me returns the profile of the current user.
func (s *Service) Me(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return handler.Error(c, fiber.StatusUnauthorized, "authentication failed")
	}

	return c.Status(fiber.StatusOK).JSON(newProfileResponse(user))
}

// UpdateMe updates the mutable profile fields of the current user.
func (s *Service) UpdateMe(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return handler.Error(c, fiber.StatusUnauthorized, "authentication failed")
	}

	var req updateMeRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "malformed request body")
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.MapError(c, err)
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}

	if req.LastName != nil {
		user.LastName = *req.LastName
	}

	if req.Gender != nil {
		user.Gender = models.Gender(*req.Gender)
	}

	if err := s.deps.DB.Save(user).Error; err != nil {
		return handler.MapError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(newProfileResponse(user))
}

// mailCode delivers a passcode mail. Delivery is best effort, a failing
// relay must not abort the flow the passcode belongs to.
func (s *Service) mailCode(user *models.User, subject, code string) {
	body := fmt.Sprintf("Hello %s,\n\nyour code is %s. It expires in %s.\n",
		user.FullName(), code, s.deps.Cfg.OTP.TTL)

	if err := s.deps.Mailer.Send(user.Email, subject, body); err != nil {
		log.Error().Err(err).Str("user", user.ID.String()).Msg("passcode mail delivery failed")
		return
	}

	note := models.Notification{
		UserID:  user.ID,
		Type:    models.NotificationOtp,
		Message: fmt.Sprintf("%s sent to %s", subject, user.Email),
	}
	if err := s.deps.DB.Create(&note).Error; err != nil {
		log.Error().Err(err).Msg("record otp notification failed")
	}
}
