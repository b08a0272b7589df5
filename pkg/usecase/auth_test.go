package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/grievance/pkg/domain/model"
	"github.com/secmon-lab/grievance/pkg/repository/memory"
	"github.com/secmon-lab/grievance/pkg/usecase"
)

func newAuthUseCase(clock func() time.Time) *usecase.AuthUseCase {
	return usecase.NewAuthUseCase(memory.New(), []byte("test-secret"),
		usecase.WithBcryptCost(4),
		usecase.WithAuthClock(clock),
		usecase.WithTokenTTL(time.Hour),
	)
}

func validSignUp() usecase.SignUpInput {
	return usecase.SignUpInput{
		StaffID:  "S001",
		Password: "correct horse",
		Email:    "officer@example.com",
		FullName: "Officer One",
	}
}

func TestAuthUseCase_SignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	uc := newAuthUseCase(time.Now)

	token, err := uc.SignUp(ctx, validSignUp())
	gt.NoError(t, err).Required()

	claims, err := uc.ValidateToken(ctx, token)
	gt.NoError(t, err).Required()
	gt.Value(t, claims.Sub).Equal("S001")
	gt.Value(t, claims.Email).Equal("officer@example.com")
	gt.Value(t, claims.Name).Equal("Officer One")

	token, err = uc.SignIn(ctx, "S001", "correct horse")
	gt.NoError(t, err).Required()
	_, err = uc.ValidateToken(ctx, token)
	gt.NoError(t, err)
}

func TestAuthUseCase_SignUpErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("field errors", func(t *testing.T) {
		uc := newAuthUseCase(time.Now)

		_, err := uc.SignUp(ctx, usecase.SignUpInput{Password: "short", Email: "not-an-email"})
		gt.Error(t, err).Is(model.ErrValidation)

		var fe *usecase.FieldErrors
		gt.Bool(t, errors.As(err, &fe)).True()
		gt.Value(t, len(fe.Fields)).Equal(4)
		gt.Value(t, fe.Fields["password"]).NotEqual("")
	})

	t.Run("duplicate staff ID", func(t *testing.T) {
		uc := newAuthUseCase(time.Now)

		_, err := uc.SignUp(ctx, validSignUp())
		gt.NoError(t, err).Required()

		_, err = uc.SignUp(ctx, validSignUp())
		gt.Error(t, err).Is(model.ErrAlreadyExists)

		var fe *usecase.FieldErrors
		gt.Bool(t, errors.As(err, &fe)).True()
		gt.Value(t, fe.Fields["staff_id"]).Equal("staff ID is already registered")
	})
}

func TestAuthUseCase_SignInErrors(t *testing.T) {
	ctx := context.Background()
	uc := newAuthUseCase(time.Now)
	_, err := uc.SignUp(ctx, validSignUp())
	gt.NoError(t, err).Required()

	testCases := []struct {
		name     string
		staffID  string
		password string
		want     error
	}{
		{"wrong password", "S001", "wrong password", usecase.ErrInvalidCredentials},
		{"unknown staff", "S999", "correct horse", usecase.ErrInvalidCredentials},
		{"empty fields", "", "", model.ErrValidation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.SignIn(ctx, tc.staffID, tc.password)
			gt.Error(t, err).Is(tc.want)
		})
	}
}

func TestAuthUseCase_ValidateToken(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	uc := newAuthUseCase(func() time.Time { return now })

	token, err := uc.SignUp(ctx, validSignUp())
	gt.NoError(t, err).Required()

	t.Run("expired", func(t *testing.T) {
		later := newAuthUseCase(func() time.Time { return now.Add(2 * time.Hour) })
		_, err := later.ValidateToken(ctx, token)
		gt.Error(t, err).Is(usecase.ErrUnauthorized)
	})

	t.Run("signed with another key", func(t *testing.T) {
		other := usecase.NewAuthUseCase(memory.New(), []byte("other-secret"))
		_, err := other.ValidateToken(ctx, token)
		gt.Error(t, err).Is(usecase.ErrUnauthorized)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := uc.ValidateToken(ctx, "not-a-token")
		gt.Error(t, err).Is(usecase.ErrUnauthorized)

		_, err = uc.ValidateToken(ctx, "")
		gt.Error(t, err).Is(usecase.ErrUnauthorized)
	})
}
