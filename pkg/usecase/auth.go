package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grievance/pkg/domain/interfaces"
	"github.com/secmon-lab/grievance/pkg/domain/model"
	"github.com/secmon-lab/grievance/pkg/domain/model/auth"
	"github.com/secmon-lab/grievance/pkg/domain/model/config"
	"github.com/secmon-lab/grievance/pkg/utils/logging"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer       = "grievance"
	minPasswordLength = 8
)

// SignUpInput is the staff registration form
type SignUpInput struct {
	StaffID  string
	Password string
	Email    string
	FullName string
}

type AuthUseCase struct {
	repo       interfaces.Repository
	secret     []byte
	ttl        time.Duration
	bcryptCost int
	clock      func() time.Time
}

// AuthOption is a functional option for AuthUseCase
type AuthOption func(*AuthUseCase)

// WithTokenTTL sets the lifetime of issued tokens
func WithTokenTTL(ttl time.Duration) AuthOption {
	return func(uc *AuthUseCase) {
		uc.ttl = ttl
	}
}

// WithBcryptCost sets the password hashing cost
func WithBcryptCost(cost int) AuthOption {
	return func(uc *AuthUseCase) {
		uc.bcryptCost = cost
	}
}

func WithAuthClock(clock func() time.Time) AuthOption {
	return func(uc *AuthUseCase) {
		uc.clock = clock
	}
}

// NewAuthUseCase creates the staff authentication use case. Without a secret a
// random key is generated, so tokens do not survive a restart.
func NewAuthUseCase(repo interfaces.Repository, secret []byte, options ...AuthOption) *AuthUseCase {
	uc := &AuthUseCase{
		repo:       repo,
		secret:     secret,
		ttl:        config.DefaultTokenTTL,
		bcryptCost: bcrypt.DefaultCost,
		clock:      time.Now,
	}

	for _, opt := range options {
		opt(uc)
	}

	if len(uc.secret) == 0 {
		uc.secret = make([]byte, 32)
		// crypto/rand.Read never returns an error
		_, _ = rand.Read(uc.secret)
		logging.Default().Warn("No auth secret configured, using an ephemeral key")
	}

	return uc
}

// SignUp registers a staff account and returns a signed token for it
func (uc *AuthUseCase) SignUp(ctx context.Context, input SignUpInput) (string, error) {
	input.StaffID = strings.TrimSpace(input.StaffID)
	input.Email = strings.TrimSpace(input.Email)
	input.FullName = strings.TrimSpace(input.FullName)

	fe := newFieldErrors(model.ErrValidation)
	if input.StaffID == "" {
		fe.add("staff_id", "staff ID is required")
	}
	if len(input.Password) < minPasswordLength {
		fe.add("password", "password must be at least 8 characters")
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		fe.add("email", "a valid email address is required")
	}
	if input.FullName == "" {
		fe.add("full_name", "full name is required")
	}
	if !fe.empty() {
		return "", goerr.Wrap(fe, "invalid sign up form")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), uc.bcryptCost)
	if err != nil {
		return "", goerr.Wrap(err, "failed to hash password")
	}

	staff := &model.Staff{
		ID:           input.StaffID,
		Email:        input.Email,
		FullName:     input.FullName,
		PasswordHash: string(hash),
		CreatedAt:    uc.clock().UTC(),
	}
	if err := uc.repo.Staff().Create(ctx, staff); err != nil {
		if errors.Is(err, model.ErrAlreadyExists) {
			fe := newFieldErrors(model.ErrAlreadyExists)
			fe.add("staff_id", "staff ID is already registered")
			return "", goerr.Wrap(fe, "staff already registered", goerr.V(StaffIDKey, staff.ID))
		}
		return "", goerr.Wrap(err, "failed to create staff", goerr.V(StaffIDKey, staff.ID))
	}

	logging.From(ctx).Info("staff registered", "staff_id", staff.ID)
	return uc.issue(staff)
}

// SignIn checks the credentials and returns a signed token
func (uc *AuthUseCase) SignIn(ctx context.Context, staffID, password string) (string, error) {
	staffID = strings.TrimSpace(staffID)

	fe := newFieldErrors(model.ErrValidation)
	if staffID == "" {
		fe.add("staff_id", "staff ID is required")
	}
	if password == "" {
		fe.add("password", "password is required")
	}
	if !fe.empty() {
		return "", goerr.Wrap(fe, "invalid sign in form")
	}

	staff, err := uc.repo.Staff().Get(ctx, staffID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return "", goerr.Wrap(err, "failed to get staff", goerr.V(StaffIDKey, staffID))
	}
	if staff == nil || bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)) != nil {
		fe := newFieldErrors(ErrInvalidCredentials)
		fe.add("password", ErrInvalidCredentials.Error())
		return "", goerr.Wrap(fe, "sign in failed", goerr.V(StaffIDKey, staffID))
	}

	return uc.issue(staff)
}

func (uc *AuthUseCase) issue(staff *model.Staff) (string, error) {
	now := uc.clock()
	tok, err := jwt.NewBuilder().
		Issuer(tokenIssuer).
		Subject(staff.ID).
		IssuedAt(now).
		Expiration(now.Add(uc.ttl)).
		Claim("email", staff.Email).
		Claim("name", staff.FullName).
		Build()
	if err != nil {
		return "", goerr.Wrap(err, "failed to build token", goerr.V(StaffIDKey, staff.ID))
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, uc.secret))
	if err != nil {
		return "", goerr.Wrap(err, "failed to sign token", goerr.V(StaffIDKey, staff.ID))
	}
	return string(signed), nil
}

// ValidateToken verifies a signed token and returns the staff identity
func (uc *AuthUseCase) ValidateToken(ctx context.Context, raw string) (*auth.Token, error) {
	if raw == "" {
		return nil, goerr.Wrap(ErrUnauthorized, "token is empty")
	}

	tok, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.HS256, uc.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithClock(jwt.ClockFunc(uc.clock)),
	)
	if err != nil {
		return nil, goerr.Wrap(ErrUnauthorized, "invalid token", goerr.V("reason", err.Error()))
	}

	token := &auth.Token{
		Sub:       tok.Subject(),
		IssuedAt:  tok.IssuedAt(),
		ExpiresAt: tok.Expiration(),
	}
	if v, ok := tok.Get("email"); ok {
		token.Email, _ = v.(string)
	}
	if v, ok := tok.Get("name"); ok {
		token.Name, _ = v.(string)
	}
	if token.Sub == "" {
		return nil, goerr.Wrap(ErrUnauthorized, "token has no subject")
	}

	return token, nil
}
