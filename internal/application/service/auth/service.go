package auth_service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"feed-service/internal/custom_errors"
	model "feed-service/internal/domain/models"
	ports "feed-service/internal/domain/ports/output"
	"feed-service/internal/domain/ports/output/auth"
	user_repository "feed-service/internal/domain/ports/output/user"
)

const (
	msgInvalidEmail     = "Invalid E-mail"
	msgPasswordTooShort = "Password should be 5 char At least"
	msgPasswordTooLong  = "Password should be 72 bytes at most"
	msgNameRequired     = "Name is required"
	msgUserExists       = "User Exist"
	msgUserDoesNotExist = "User does not exist"
	msgWrongCredentials = "Wrong E-mail or password"
	minPasswordLength   = 5
	maxPasswordBytes    = 72 // bcrypt input limit
)

type AuthService struct {
	users    user_repository.Repository
	hasher   auth.PasswordHasher
	tokens   auth.TokenManager
	validate *validator.Validate
	log      ports.Logger
	metrics  ports.MetricsProvider
}

func NewAuthService(
	users user_repository.Repository,
	hasher auth.PasswordHasher,
	tokens auth.TokenManager,
	log ports.Logger,
	metrics ports.MetricsProvider,
) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		validate: validator.New(),
		log:      log,
		metrics:  metrics,
	}
}

func (s *AuthService) Signup(ctx context.Context, dto *model.SignupDTO) (user *model.User, err error) {
	defer func() { s.metrics.IncrementAuthOperations("signup", err == nil) }()

	email := strings.ToLower(strings.TrimSpace(dto.Email))
	name := strings.TrimSpace(dto.Name)
	if err := custom_errors.Validate(
		custom_errors.When(s.validate.Var(email, "required,email") != nil, msgInvalidEmail),
		custom_errors.When(utf8.RuneCountInString(dto.Password) < minPasswordLength, msgPasswordTooShort),
		custom_errors.When(len(dto.Password) > maxPasswordBytes, msgPasswordTooLong),
		custom_errors.When(name == "", msgNameRequired),
	); err != nil {
		return nil, err
	}

	_, err = s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		s.log.Debug("Signup with existing email", slog.String("email", email))
		return nil, custom_errors.New(msgUserExists, http.StatusConflict)
	case !errors.Is(err, custom_errors.ErrUserNotFound):
		s.log.Error("Failed to look up user by email", slog.String("error", err.Error()))
		return nil, err
	}

	digest, err := s.hasher.Hash(dto.Password)
	if err != nil {
		s.log.Error("Failed to hash password", slog.String("error", err.Error()))
		return nil, custom_errors.ErrPasswordHash
	}

	created, err := s.users.Create(ctx, &model.User{
		Email:    email,
		Name:     name,
		Password: digest,
		Status:   model.DefaultUserStatus,
	})
	if err != nil {
		if errors.Is(err, custom_errors.ErrUserExists) {
			return nil, custom_errors.New(msgUserExists, http.StatusConflict)
		}
		s.log.Error("Failed to create user", slog.String("error", err.Error()))
		return nil, err
	}

	s.log.Info("User signed up", slog.String("user_id", created.ID))
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (result *model.AuthResult, err error) {
	defer func() { s.metrics.IncrementAuthOperations("login", err == nil) }()

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, custom_errors.ErrUserNotFound) {
			return nil, custom_errors.New(msgUserDoesNotExist, http.StatusUnauthorized)
		}
		s.log.Error("Failed to look up user by email", slog.String("error", err.Error()))
		return nil, err
	}

	if !s.hasher.Compare(password, user.Password) {
		s.log.Debug("Wrong password", slog.String("user_id", user.ID))
		return nil, custom_errors.New(msgWrongCredentials, http.StatusUnauthorized)
	}

	token, err := s.tokens.Issue(model.Identity{UserID: user.ID, Email: user.Email})
	if err != nil {
		s.log.Error("Failed to issue token", slog.String("error", err.Error()))
		return nil, custom_errors.ErrTokenSign
	}

	return &model.AuthResult{Token: token, UserID: user.ID}, nil
}
