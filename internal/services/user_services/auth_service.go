package user_services

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go-discussions/internal/auth"
	"go-discussions/internal/domain"
	"go-discussions/internal/repository/user"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

type AuthService struct {
	userRepo     user.UserRepository
	jwtSecretKey string
	logger       Logger
}

func NewAuthService(userRepo user.UserRepository, jwtSecretKey string, logger Logger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		logger:       logger,
	}
}

// Login authenticates a user and returns a JWT token
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	if username == "" || password == "" {
		s.logger.Warn("login attempt with empty credentials",
			"has_username", username != "",
			"has_password", password != "")
		return nil, "", errors.New("username and password are required")
	}

	userRecord, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		s.logger.Warn("login failed - user not found",
			"username", maskName(username),
			"error", "user_not_found")
		return nil, "", errors.New("invalid credentials")
	}

	if err := userRecord.ValidatePassword(password); err != nil {
		s.logger.Warn("login failed - invalid password",
			"username", maskName(username),
			"user_id", userRecord.ID,
			"error", "invalid_password")
		return nil, "", errors.New("invalid credentials")
	}

	token, err := auth.GenerateJWT(userRecord.ID, []byte(s.jwtSecretKey))
	if err != nil {
		s.logger.Error("JWT token generation failed",
			"error", err,
			"user_id", userRecord.ID)
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("login successful",
		"username", maskName(username),
		"user_id", userRecord.ID)

	return userRecord, token, nil
}

// Register validates input, hashes the password and creates the user.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if err := s.validateRegistrationInput(username, password); err != nil {
		s.logger.Warn("registration validation failed",
			"username", maskName(username),
			"error", err.Error())
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		s.logger.Warn("registration failed - username already exists",
			"username", maskName(username),
			"existing_user_id", existing.ID)
		return nil, errors.New("username already taken")
	}

	userRecord := &domain.User{Username: username}
	if err := userRecord.HashPassword(password); err != nil {
		s.logger.Error("password hashing failed",
			"error", err,
			"username", maskName(username))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	createdUser, err := s.userRepo.Create(ctx, userRecord)
	if err != nil {
		s.logger.Error("user creation failed",
			"error", err,
			"username", maskName(username))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered successfully",
		"username", maskName(username),
		"user_id", createdUser.ID)

	return createdUser, nil
}

// ValidateJWTToken validates a JWT token and returns the user ID
func (s *AuthService) ValidateJWTToken(tokenString string) (uint, error) {
	if tokenString == "" {
		s.logger.Warn("JWT validation attempted with empty token")
		return 0, errors.New("empty token")
	}

	userID, err := auth.ValidateToken(tokenString, []byte(s.jwtSecretKey))
	if err != nil {
		s.logger.Warn("JWT validation failed", "error", err)
		return 0, err
	}

	return userID, nil
}

func (s *AuthService) validateRegistrationInput(username, password string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username validation: username must be 3-20 characters, alphanumeric or underscore")
	}

	if len(password) < 8 {
		return fmt.Errorf("password validation: password must be at least 8 characters")
	}

	// bcrypt silently truncates beyond 72 bytes
	if len(password) > 72 {
		return fmt.Errorf("password validation: password must be at most 72 characters")
	}

	return nil
}

// maskName keeps log lines useful without spilling full usernames.
func maskName(username string) string {
	n := len(username)
	if n > 4 {
		n = 4
	}
	return username[:n] + "****"
}
