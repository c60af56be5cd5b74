package controllers

import (
	"strings"

	"smsburst-backend/auth"
	"smsburst-backend/middlewares"
	"smsburst-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuthController struct {
	DB             *gorm.DB
	JWT            *auth.JWTManager
	Devices        *auth.DeviceTracker
	Production     bool
	InitialCredits int
	SignupIPLimit  int
}

type signupRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func userJSON(user *models.User) fiber.Map {
	return fiber.Map{
		"id":      user.Id,
		"email":   user.Email,
		"credits": user.Credits,
	}
}

func (ac *AuthController) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Password != req.ConfirmPassword {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Passwords do not match"})
	}

	ip := middlewares.ClientIP(c)

	// Coarse anti-abuse control, scoped to signup only.
	accounts, err := ac.Devices.AccountsFromIP(ip)
	if err != nil {
		return err
	}
	if accounts >= int64(ac.SignupIPLimit) {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "Too many accounts from this address",
		})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var existing models.User
	if err := ac.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email already registered"})
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}
	secret, err := auth.GenerateUserSecret()
	if err != nil {
		return err
	}

	user := models.User{
		Email:        email,
		PasswordHash: passwordHash,
		UserSecret:   secret,
		Credits:      ac.InitialCredits,
	}
	if err := ac.DB.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to create user account"})
	}

	// New accounts count against the IP threshold like a first login.
	if _, _, err := ac.Devices.RecordLogin(user.Id, c.Get("User-Agent"), ip); err != nil {
		return err
	}

	token, err := ac.JWT.CreateToken(user.Id)
	if err != nil {
		return err
	}
	middlewares.SetAuthCookie(c, token, ac.Production)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user":    userJSON(&user),
	})
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var user models.User
	err := ac.DB.Where("email = ?", email).First(&user).Error
	if err == gorm.ErrRecordNotFound || (err == nil && !auth.VerifyPassword(req.Password, user.PasswordHash)) {
		// Unknown email and bad password are indistinguishable on purpose.
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}
	if err != nil {
		return err
	}

	isNewDevice, info, err := ac.Devices.RecordLogin(user.Id, c.Get("User-Agent"), middlewares.ClientIP(c))
	if err != nil {
		return err
	}

	token, err := ac.JWT.CreateToken(user.Id)
	if err != nil {
		return err
	}
	middlewares.SetAuthCookie(c, token, ac.Production)

	return c.JSON(fiber.Map{
		"success":     true,
		"user":        userJSON(&user),
		"isNewDevice": isNewDevice,
		"deviceInfo":  info,
	})
}

func (ac *AuthController) Me(c *fiber.Ctx) error {
	var user models.User
	if err := ac.DB.First(&user, "id = ?", middlewares.UserID(c)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return err
	}
	return c.JSON(fiber.Map{"user": userJSON(&user)})
}

func (ac *AuthController) Sessions(c *fiber.Ctx) error {
	sessions, err := ac.Devices.Sessions(middlewares.UserID(c))
	if err != nil {
		return err
	}
	current := middlewares.ClientIP(c)
	out := make([]fiber.Map, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, fiber.Map{
			"ip":               s.IpAddress,
			"loginCount":       s.LoginCount,
			"lastLogin":        s.LastLogin,
			"isCurrentSession": s.IpAddress == current,
		})
	}
	return c.JSON(fiber.Map{"activeSessions": out})
}

func (ac *AuthController) Logout(c *fiber.Ctx) error {
	middlewares.ClearAuthCookie(c)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "All sessions logged out",
	})
}

func (ac *AuthController) VerifyDevice(c *fiber.Ctx) error {
	devices, err := ac.Devices.Devices(middlewares.UserID(c))
	if err != nil {
		return err
	}
	out := make([]fiber.Map, 0, len(devices))
	for _, d := range devices {
		out = append(out, fiber.Map{
			"fingerprint": d.Fingerprint,
			"browser":     d.Browser,
			"deviceName":  d.DeviceName,
			"lastUsed":    d.LastUsed,
			"isTrusted":   d.IsTrusted,
		})
	}
	return c.JSON(fiber.Map{"trustedDevices": out})
}
