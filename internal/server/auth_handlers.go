package server

import (
	"strconv"
	"time"

	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// generateToken creates a signed JWT for the user. The pid claim carries
// the profile id so post ownership checks need no extra lookup, and jti
// makes the token individually revocable.
func (s *Server) generateToken(user *models.User, profileID uint) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(user.ID), 10),
		"pid": strconv.FormatUint(uint64(profileID), 10),
		"jti": uuid.NewString(),
		"iss": "quill-api",
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": now.Add(7 * 24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// Signup handles POST /api/v1/auth/signup
func (s *Server) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.accountService.CreateUser(c.UserContext(), req.Email, req.Password, service.UserFlags{})
	if err != nil {
		return respondError(c, err)
	}

	profile, err := s.accountService.GetProfile(c.UserContext(), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	token, err := s.generateToken(user, profile.ID)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Login handles POST /api/v1/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.accountService.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	profile, err := s.accountService.GetProfile(c.UserContext(), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	token, err := s.generateToken(user, profile.ID)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Logout handles POST /api/v1/auth/logout. It consumes the token's jti so
// the same token can never authenticate again.
func (s *Server) Logout(c *fiber.Ctx) error {
	userID, err := actingUserID(c)
	if err != nil {
		return nil
	}

	jti, ok := c.Locals("tokenJTI").(string)
	if !ok || jti == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Token has no revocable identifier"))
	}

	if err := s.accountService.RecordUsedToken(c.UserContext(), userID, jti); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Logged out"})
}

// GetMyProfile handles GET /api/v1/profile
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID, err := actingUserID(c)
	if err != nil {
		return nil
	}

	profile, err := s.accountService.GetProfile(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"profile":      profile,
		"display_name": profile.DisplayName(),
	})
}

// UpdateMyProfile handles PUT /api/v1/profile
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID, err := actingUserID(c)
	if err != nil {
		return nil
	}

	var req struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Bio       *string `json:"bio"`
		ImageURL  *string `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.accountService.UpdateProfile(c.UserContext(), userID, service.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(profile)
}

// ChangeEmail handles PUT /api/v1/profile/email
func (s *Server) ChangeEmail(c *fiber.Ctx) error {
	userID, err := actingUserID(c)
	if err != nil {
		return nil
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.accountService.ChangeEmail(c.UserContext(), userID, req.Email)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(user)
}

// ChangePassword handles PUT /api/v1/profile/password
func (s *Server) ChangePassword(c *fiber.Ctx) error {
	userID, err := actingUserID(c)
	if err != nil {
		return nil
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.accountService.ChangePassword(c.UserContext(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Password updated"})
}
