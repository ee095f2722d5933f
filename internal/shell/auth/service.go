package auth

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/andstyle/storefront/internal/shell/store"
	"github.com/google/uuid"
)

// =============================================================================
// Errors and Messages
// =============================================================================

var (
	// ErrInvalidCredentials is returned when the email/password pair does
	// not match an account. Unknown email and wrong password are
	// deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned when registering with an email that
	// already has an account.
	ErrEmailTaken = errors.New("email already registered")
)

// User-facing credential messages, matching the login/register forms.
const (
	MsgEmailRequired      = "メールアドレスを入力してください"
	MsgEmailInvalid       = "正しいメールアドレスを入力してください"
	MsgPasswordRequired   = "パスワードを入力してください"
	MsgPasswordTooShort   = "パスワードは6文字以上で入力してください"
	MsgInvalidCredentials = "メールアドレスまたはパスワードが正しくありません"
	MsgEmailTaken         = "このメールアドレスは既に登録されています"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateCredentials checks an email/password pair for form-level
// errors. Pure - returns a field-to-message map, empty when valid.
func ValidateCredentials(email, password string) map[string]string {
	errs := make(map[string]string)

	if email == "" {
		errs["email"] = MsgEmailRequired
	} else if !emailPattern.MatchString(email) {
		errs["email"] = MsgEmailInvalid
	}

	if password == "" {
		errs["password"] = MsgPasswordRequired
	} else if len(password) < MinPasswordLength {
		errs["password"] = MsgPasswordTooShort
	}

	return errs
}

// =============================================================================
// Service
// =============================================================================

// Service implements sign-up and sign-in against the user store.
type Service struct {
	store  store.Store
	tokens *TokenManager
	logger *slog.Logger
}

// NewService creates an auth service.
func NewService(s store.Store, tokens *TokenManager, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: s, tokens: tokens, logger: logger}
}

// Register creates an account and issues a session token for it.
// The email is trimmed and lowercased before storage.
func (s *Service) Register(ctx context.Context, email, password string) (*store.User, string, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &store.User{
		ID:           "user_" + uuid.New().String()[:8],
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (*store.User, string, error) {
	user, err := s.store.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !CheckPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
