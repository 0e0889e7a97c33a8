package auth_service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"feed-service/internal/custom_errors"
	model "feed-service/internal/domain/models"
	"feed-service/internal/infrastructure/logger"
	"feed-service/internal/infrastructure/outbound/metrics/prometheus"
	user_memory "feed-service/internal/infrastructure/outbound/repository/user/memory"
	auth_mock "feed-service/mocks/auth"
)

func newService(t *testing.T) (*AuthService, *user_memory.UserRepository, *auth_mock.PasswordHasher, *auth_mock.TokenManager) {
	t.Helper()
	log := logger.New("test")
	users := user_memory.NewUserRepository(log)
	hasher := auth_mock.NewPasswordHasher(t)
	tokens := auth_mock.NewTokenManager(t)
	return NewAuthService(users, hasher, tokens, log, prometheus.NewPrometheusMetricsProvider()), users, hasher, tokens
}

func TestAuthService_Signup(t *testing.T) {
	tests := []struct {
		name       string
		existing   bool
		dto        *model.SignupDTO
		mocks      func(hasher *auth_mock.PasswordHasher)
		wantData   []custom_errors.FieldMessage
		wantStatus int
		wantMsg    string
	}{
		{
			name: "Success normalises email",
			dto:  &model.SignupDTO{Email: "  Alice@Example.COM ", Name: "Alice", Password: "secret"},
			mocks: func(hasher *auth_mock.PasswordHasher) {
				hasher.On("Hash", "secret").Return("digest", nil).Once()
			},
		},
		{
			name:     "Invalid email and short password",
			dto:      &model.SignupDTO{Email: "not-an-email", Name: "Alice", Password: "abc"},
			mocks:    func(hasher *auth_mock.PasswordHasher) {},
			wantData: []custom_errors.FieldMessage{{Msg: msgInvalidEmail}, {Msg: msgPasswordTooShort}},
		},
		{
			name:     "Password longer than bcrypt accepts",
			dto:      &model.SignupDTO{Email: "alice@example.com", Name: "Alice", Password: strings.Repeat("p", 80)},
			mocks:    func(hasher *auth_mock.PasswordHasher) {},
			wantData: []custom_errors.FieldMessage{{Msg: msgPasswordTooLong}},
		},
		{
			name: "Password of exactly 72 bytes",
			dto:  &model.SignupDTO{Email: "alice@example.com", Name: "Alice", Password: strings.Repeat("p", 72)},
			mocks: func(hasher *auth_mock.PasswordHasher) {
				hasher.On("Hash", strings.Repeat("p", 72)).Return("digest", nil).Once()
			},
		},
		{
			name: "Spaces count toward the password length",
			dto:  &model.SignupDTO{Email: "alice@example.com", Name: "Alice", Password: "  abc"},
			mocks: func(hasher *auth_mock.PasswordHasher) {
				hasher.On("Hash", "  abc").Return("digest", nil).Once()
			},
		},
		{
			name:     "Missing name",
			dto:      &model.SignupDTO{Email: "alice@example.com", Name: " ", Password: "secret"},
			mocks:    func(hasher *auth_mock.PasswordHasher) {},
			wantData: []custom_errors.FieldMessage{{Msg: msgNameRequired}},
		},
		{
			name:       "Duplicate email",
			existing:   true,
			dto:        &model.SignupDTO{Email: "ALICE@example.com", Name: "Alice again", Password: "secret"},
			mocks:      func(hasher *auth_mock.PasswordHasher) {},
			wantStatus: http.StatusConflict,
			wantMsg:    msgUserExists,
		},
		{
			name: "Hash failure",
			dto:  &model.SignupDTO{Email: "alice@example.com", Name: "Alice", Password: "secret"},
			mocks: func(hasher *auth_mock.PasswordHasher) {
				hasher.On("Hash", "secret").Return("", errors.New("entropy exhausted")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, users, hasher, _ := newService(t)
			var existing *model.User
			if tt.existing {
				var err error
				existing, err = users.Create(context.Background(), &model.User{Email: "alice@example.com", Name: "Alice", Password: "digest"})
				require.NoError(t, err)
			}
			tt.mocks(hasher)

			got, err := service.Signup(context.Background(), tt.dto)

			switch {
			case tt.wantData != nil:
				var validationErr *custom_errors.ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Equal(t, tt.wantData, validationErr.Data())
			case tt.wantStatus != 0:
				fault := custom_errors.Normalize(err)
				assert.Equal(t, tt.wantStatus, fault.Status)
				assert.Equal(t, tt.wantMsg, fault.Message)
				assert.Nil(t, got)
				if existing != nil {
					stored, err := users.GetByEmail(context.Background(), "alice@example.com")
					require.NoError(t, err)
					assert.Equal(t, existing.ID, stored.ID)
					assert.Equal(t, "Alice", stored.Name)
				}
			default:
				require.NoError(t, err)
				assert.Equal(t, "alice@example.com", got.Email)
				assert.Equal(t, "digest", got.Password)
				assert.Equal(t, model.DefaultUserStatus, got.Status)
				assert.Empty(t, got.Posts)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		password   string
		mocks      func(hasher *auth_mock.PasswordHasher, tokens *auth_mock.TokenManager)
		wantToken  string
		wantStatus int
		wantMsg    string
	}{
		{
			name:     "Success",
			email:    "Alice@example.com",
			password: "secret",
			mocks: func(hasher *auth_mock.PasswordHasher, tokens *auth_mock.TokenManager) {
				hasher.On("Compare", "secret", "digest").Return(true).Once()
				tokens.On("Issue", mock.MatchedBy(func(id model.Identity) bool {
					return id.Email == "alice@example.com" && id.UserID != ""
				})).Return("signed.jwt.token", nil).Once()
			},
			wantToken: "signed.jwt.token",
		},
		{
			name:       "Unknown email",
			email:      "bob@example.com",
			password:   "secret",
			mocks:      func(hasher *auth_mock.PasswordHasher, tokens *auth_mock.TokenManager) {},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    msgUserDoesNotExist,
		},
		{
			name:     "Wrong password",
			email:    "alice@example.com",
			password: "guess",
			mocks: func(hasher *auth_mock.PasswordHasher, tokens *auth_mock.TokenManager) {
				hasher.On("Compare", "guess", "digest").Return(false).Once()
			},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    msgWrongCredentials,
		},
		{
			name:     "Signing failure",
			email:    "alice@example.com",
			password: "secret",
			mocks: func(hasher *auth_mock.PasswordHasher, tokens *auth_mock.TokenManager) {
				hasher.On("Compare", "secret", "digest").Return(true).Once()
				tokens.On("Issue", mock.Anything).Return("", custom_errors.ErrTokenSign).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, users, hasher, tokens := newService(t)
			alice, err := users.Create(context.Background(), &model.User{Email: "alice@example.com", Name: "Alice", Password: "digest"})
			require.NoError(t, err)
			tt.mocks(hasher, tokens)

			got, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.wantStatus != 0 {
				fault := custom_errors.Normalize(err)
				assert.Equal(t, tt.wantStatus, fault.Status)
				assert.Equal(t, tt.wantMsg, fault.Message)
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, &model.AuthResult{Token: tt.wantToken, UserID: alice.ID}, got)
		})
	}
}
