package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"

	"github.com/harborstay/harborstay/internal/domain"
	"github.com/harborstay/harborstay/internal/mailer"
	"github.com/harborstay/harborstay/internal/repository"
	"github.com/harborstay/harborstay/pkg/auth"
	"github.com/harborstay/harborstay/pkg/config"
	"github.com/harborstay/harborstay/pkg/events"
	"github.com/harborstay/harborstay/pkg/logger"
)

type AccountService interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.LoginResponse, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	Me(ctx context.Context, userID int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int64, patch domain.UserPatch) (*domain.User, error)
}

type accountService struct {
	userRepo repository.UserRepository
	eventBus events.Publisher
	mail     mailer.Service
	config   *config.Config
}

func NewAccountService(userRepo repository.UserRepository, eventBus events.Publisher, mail mailer.Service, cfg *config.Config) AccountService {
	return &accountService{
		userRepo: userRepo,
		eventBus: eventBus,
		mail:     mail,
		config:   cfg,
	}
}

func (s *accountService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.LoginResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, req, hash)
	if err != nil {
		return nil, err
	}

	token, err := auth.NewAccessToken(user.ID, user.Email, string(user.Role), s.config.Auth.JWTSecret, s.config.Auth.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	if err := s.mail.SendWelcomeEmail(user.Email, user.Username); err != nil {
		logger.ErrorContext(ctx, "Failed to send welcome email", "error", err, "user_id", user.ID)
	}

	event := events.UserRegisteredEvent{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.UserRegistered, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish user registered event", "error", err, "user_id", user.ID)
	}

	logger.InfoContext(ctx, "User registered", "user_id", user.ID, "role", user.Role)

	return &domain.LoginResponse{AccessToken: token, User: user}, nil
}

func (s *accountService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.Permissionf("invalid email or password")
	}

	match, err := argon2id.ComparePasswordAndHash(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		return nil, domain.Permissionf("invalid email or password")
	}

	token, err := auth.NewAccessToken(user.ID, user.Email, string(user.Role), s.config.Auth.JWTSecret, s.config.Auth.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	return &domain.LoginResponse{AccessToken: token, User: user}, nil
}

func (s *accountService) Me(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NotFoundf("user %d not found", userID)
	}
	return user, nil
}

func (s *accountService) UpdateProfile(ctx context.Context, userID int64, patch domain.UserPatch) (*domain.User, error) {
	if patch.DateOfBirth != nil {
		if _, err := time.Parse(domain.DateLayout, *patch.DateOfBirth); err != nil {
			return nil, domain.Validationf("date_of_birth must be a date in the form %s", domain.DateLayout)
		}
	}

	user, err := s.userRepo.Update(ctx, userID, patch)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NotFoundf("user %d not found", userID)
	}
	return user, nil
}
