package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/grievance/pkg/domain/interfaces"
	"github.com/secmon-lab/grievance/pkg/domain/model"
	"github.com/secmon-lab/grievance/pkg/repository/memory"
)

func runStaffRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create then Get", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		s := &model.Staff{
			ID:           "S001",
			Email:        "officer@example.com",
			FullName:     "Officer One",
			PasswordHash: "hash",
			CreatedAt:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		gt.NoError(t, repo.Staff().Create(ctx, s)).Required()

		got, err := repo.Staff().Get(ctx, "S001")
		gt.NoError(t, err).Required()
		gt.Value(t, got.Email).Equal("officer@example.com")
		gt.Value(t, got.FullName).Equal("Officer One")
		gt.Value(t, got.PasswordHash).Equal("hash")
	})

	t.Run("Create rejects a taken staff ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Staff().Create(ctx, &model.Staff{ID: "S002"})).Required()
		gt.Error(t, repo.Staff().Create(ctx, &model.Staff{ID: "S002"})).Is(model.ErrAlreadyExists)
	})

	t.Run("Get returns ErrNotFound", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Staff().Get(context.Background(), "nobody")
		gt.Error(t, err).Is(model.ErrNotFound)
	})
}

func TestStaffRepository_Memory(t *testing.T) {
	runStaffRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestStaffRepository_Firestore(t *testing.T) {
	runStaffRepositoryTest(t, newFirestoreRepository)
}
