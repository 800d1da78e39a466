// Package service implements the application's business rules on top of
// the repository layer: validation, ownership, visibility, and the
// asynchronous comment-creation contract.
package service

import (
	"context"

	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// AccountService owns the user and profile lifecycle.
type AccountService struct {
	userRepo repository.UserRepository
}

// UserFlags carries optional boolean overrides at user creation. A nil
// field keeps the model default.
type UserFlags struct {
	IsActive    *bool
	IsStaff     *bool
	IsSuperuser *bool
	IsVerified  *bool
}

// UpdateProfileInput carries a partial profile update.
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Bio       *string
	ImageURL  *string
}

// NewAccountService creates a new account service.
func NewAccountService(userRepo repository.UserRepository) *AccountService {
	return &AccountService{userRepo: userRepo}
}

// CreateUser validates input, hashes the password, and creates the User
// together with its paired Profile in one transaction.
func (s *AccountService) CreateUser(ctx context.Context, email, password string, flags UserFlags) (*models.User, error) {
	if email == "" {
		return nil, models.NewValidationError("Email is required")
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hashed),
		IsActive: true,
	}
	if flags.IsActive != nil {
		user.IsActive = *flags.IsActive
	}
	if flags.IsStaff != nil {
		user.IsStaff = *flags.IsStaff
	}
	if flags.IsSuperuser != nil {
		user.IsSuperuser = *flags.IsSuperuser
	}
	if flags.IsVerified != nil {
		user.IsVerified = *flags.IsVerified
	}

	if err := s.userRepo.CreateWithProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateSuperuser creates a user with staff, superuser, and verified all
// set. Explicitly passing any of them as false is a validation error.
func (s *AccountService) CreateSuperuser(ctx context.Context, email, password string, flags UserFlags) (*models.User, error) {
	if flags.IsStaff != nil && !*flags.IsStaff {
		return nil, models.NewValidationError("Superuser must have is_staff=true")
	}
	if flags.IsSuperuser != nil && !*flags.IsSuperuser {
		return nil, models.NewValidationError("Superuser must have is_superuser=true")
	}
	if flags.IsVerified != nil && !*flags.IsVerified {
		return nil, models.NewValidationError("Superuser must have is_verified=true")
	}

	enabled := true
	flags.IsStaff = &enabled
	flags.IsSuperuser = &enabled
	flags.IsVerified = &enabled
	return s.CreateUser(ctx, email, password, flags)
}

// Authenticate verifies the email/password pair and returns the user.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if !user.IsActive {
		return nil, models.NewUnauthorizedError("Account is disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return user, nil
}

// RecordUsedToken marks a token identifier as consumed. The jti is unique
// across all users; recording the same jti twice fails with a conflict.
func (s *AccountService) RecordUsedToken(ctx context.Context, userID uint, jti string) error {
	if jti == "" {
		return models.NewValidationError("Token identifier is required")
	}
	return s.userRepo.RecordUsedToken(ctx, userID, jti)
}

// IsTokenUsed reports whether the jti has been consumed by any user.
func (s *AccountService) IsTokenUsed(ctx context.Context, jti string) (bool, error) {
	return s.userRepo.IsTokenUsed(ctx, jti)
}

// GetProfile returns the profile for the given user.
func (s *AccountService) GetProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.userRepo.GetProfileByUserID(ctx, userID)
}

// UpdateProfile applies a partial update to the user's profile.
func (s *AccountService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*models.Profile, error) {
	profile, err := s.userRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500
	if in.FirstName != nil {
		profile.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		profile.LastName = *in.LastName
	}
	if in.Bio != nil {
		if len(*in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		profile.Bio = *in.Bio
	}
	if in.ImageURL != nil {
		profile.ImageURL = *in.ImageURL
	}

	if err := s.userRepo.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// ChangeEmail updates the user's email after re-validating it.
func (s *AccountService) ChangeEmail(ctx context.Context, userID uint, newEmail string) (*models.User, error) {
	if err := validation.ValidateEmail(newEmail); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.GetByEmail(ctx, newEmail)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != userID {
		return nil, models.NewConflictError("email already registered")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Email = newEmail
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password and stores a new hash.
func (s *AccountService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return models.NewUnauthorizedError("Current password is incorrect")
	}
	if err := validation.ValidatePassword(next); err != nil {
		return models.NewValidationError(err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	user.Password = string(hashed)
	return s.userRepo.Update(ctx, user)
}
