package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/divaskloset/storefront/internal/domain"
	"github.com/divaskloset/storefront/internal/events"
	"github.com/divaskloset/storefront/internal/logging"
	"github.com/divaskloset/storefront/internal/mailer"
	"github.com/divaskloset/storefront/internal/models"
	"github.com/divaskloset/storefront/internal/repo"
)

const (
	otpTTL         = 10 * time.Minute
	maxOTPAttempts = 5
	emailTokenTTL  = 48 * time.Hour
)

var validate = validator.New()

// Store is the slice of the repository the auth flow needs.
type Store interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	EnsureUser(ctx context.Context, email string) (*models.User, error)
	SaveUser(ctx context.Context, u *models.User) error
	ReplaceCode(ctx context.Context, email, code string, ttl time.Duration) error
	GetCode(ctx context.Context, email string) (*models.OneTimeCode, error)
	IncrementAttempts(ctx context.Context, email string) error
	DeleteCode(ctx context.Context, email string) error
	CreateEmailToken(ctx context.Context, t *models.EmailToken) error
	ConsumeEmailToken(ctx context.Context, token, purpose string) (*models.EmailToken, error)
}

var _ Store = (*repo.GormRepo)(nil)

type Service struct {
	Store     Store
	Mailer    mailer.Mailer
	Events    events.Publisher
	JWTSecret []byte
	PublicURL string
}

type LoginResult struct {
	Token string
	User  *models.User
}

// RequestOTP issues a fresh 6-digit code for the email, displacing any code
// that was still pending. The response never reveals whether an account
// exists; the code itself is returned so non-production handlers can echo
// it for local testing.
func (s *Service) RequestOTP(ctx context.Context, email string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.request_otp")

	if err := validate.Var(email, "required,email"); err != nil {
		return "", fmt.Errorf("%w: invalid email address", domain.ErrValidation)
	}
	email = repo.NormalizeEmail(email)

	code, err := generateCode()
	if err != nil {
		return "", err
	}

	if err := s.Store.ReplaceCode(ctx, email, code, otpTTL); err != nil {
		l.Error("store_code_failed", "error", err)
		return "", err
	}

	body := fmt.Sprintf("Your Diva's Kloset verification code is %s. It expires in 10 minutes.", code)
	if err := s.Mailer.SendEmail(email, "Your Diva's Kloset login code", body); err != nil {
		l.Error("send_code_failed", "error", err)
		return "", fmt.Errorf("send verification code: %w", err)
	}

	s.publish(ctx, events.TopicUserEvents, email, map[string]any{
		"type":  "otp_requested",
		"email": email,
	})

	return code, nil
}

// VerifyOTP walks the pending code through its terminal states. Every exit
// except a plain mismatch deletes the row; a mismatch burns one of the five
// attempts and leaves the code pending.
func (s *Service) VerifyOTP(ctx context.Context, email, submitted string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.verify_otp")
	email = repo.NormalizeEmail(email)

	row, err := s.Store.GetCode(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no code requested for this email", domain.ErrNotFound)
		}
		return nil, err
	}

	if time.Now().After(row.ExpiresAt) {
		if err := s.Store.DeleteCode(ctx, email); err != nil {
			l.Error("delete_expired_code_failed", "error", err)
		}
		return nil, fmt.Errorf("%w: code expired, request a new one", domain.ErrExpired)
	}

	if row.Attempts >= maxOTPAttempts {
		if err := s.Store.DeleteCode(ctx, email); err != nil {
			l.Error("delete_exhausted_code_failed", "error", err)
		}
		return nil, fmt.Errorf("%w: request a new code", domain.ErrRateLimited)
	}

	if row.Code != submitted {
		if err := s.Store.IncrementAttempts(ctx, email); err != nil {
			l.Error("increment_attempts_failed", "error", err)
		}
		return nil, fmt.Errorf("%w: incorrect code", domain.ErrInvalidCredential)
	}

	if err := s.Store.DeleteCode(ctx, email); err != nil {
		return nil, err
	}

	user, err := s.Store.EnsureUser(ctx, email)
	if err != nil {
		return nil, err
	}
	if !user.Verified {
		user.Verified = true
		if err := s.Store.SaveUser(ctx, user); err != nil {
			return nil, err
		}
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.TopicUserEvents, user.ID, map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID,
		"email":  user.Email,
	})
	l.Info("otp_verified", "user_id", user.ID)

	return &LoginResult{Token: token, User: user}, nil
}

// Login is the password path used by the admin panel. OTP-only accounts have
// no hash and always fail it.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if err := validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", domain.ErrValidation)
	}

	user, err := s.Store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", domain.ErrInvalidCredential)
		}
		return nil, err
	}
	if user.PasswordHash == nil {
		return nil, fmt.Errorf("%w: invalid email or password", domain.ErrInvalidCredential)
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)) != nil {
		l.Warn("login_failed", "email", user.Email)
		return nil, fmt.Errorf("%w: invalid email or password", domain.ErrInvalidCredential)
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.TopicUserEvents, user.ID, map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID,
		"email":  user.Email,
	})

	return &LoginResult{Token: token, User: user}, nil
}

// CurrentUser resolves the account behind a verified token subject.
func (s *Service) CurrentUser(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, domain.ErrNotFound
	}
	return s.Store.GetUserByID(ctx, id)
}

// RequestEmailConfirmation sends a long-form confirmation link, used when an
// admin re-triggers verification for an existing account.
func (s *Service) RequestEmailConfirmation(ctx context.Context, email string) error {
	user, err := s.Store.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return err
	}
	token := hex.EncodeToString(raw)

	row := &models.EmailToken{
		Token:     token,
		Email:     user.Email,
		Purpose:   "email",
		ExpiresAt: time.Now().Add(emailTokenTTL),
	}
	if err := s.Store.CreateEmailToken(ctx, row); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/api/auth/confirm-email?token=%s", s.PublicURL, token)
	body := fmt.Sprintf("Confirm your Diva's Kloset email address: %s", link)
	return s.Mailer.SendEmail(user.Email, "Confirm your email", body)
}

func (s *Service) ConfirmEmail(ctx context.Context, token string) error {
	row, err := s.Store.ConsumeEmailToken(ctx, token, "email")
	if err != nil {
		return err
	}
	user, err := s.Store.GetUserByEmail(ctx, row.Email)
	if err != nil {
		return err
	}
	if !user.Verified {
		user.Verified = true
		return s.Store.SaveUser(ctx, user)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, topic, key string, event map[string]any) {
	if s.Events == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Events.PublishEvent(pubCtx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "topic", topic, "error", err)
	}
}

// generateCode draws uniformly over 000000-999999.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
