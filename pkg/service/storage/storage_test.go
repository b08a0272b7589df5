package storage_test

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/grievance/pkg/domain/interfaces"
	"github.com/secmon-lab/grievance/pkg/domain/model"
	"github.com/secmon-lab/grievance/pkg/service/storage"
)

func runFileStorageTest(t *testing.T, fs interfaces.FileStorage) {
	t.Helper()
	ctx := context.Background()

	t.Run("Put then Get returns content", func(t *testing.T) {
		n, err := fs.Put(ctx, "cases/c1/receipt.txt", "text/plain", strings.NewReader("paid 100"))
		gt.NoError(t, err).Required()
		gt.Number(t, n).Equal(8)

		r, err := fs.Get(ctx, "cases/c1/receipt.txt")
		gt.NoError(t, err).Required()
		defer r.Close()

		data, err := io.ReadAll(r)
		gt.NoError(t, err).Required()
		gt.Value(t, string(data)).Equal("paid 100")
	})

	t.Run("Delete removes the file and tolerates missing paths", func(t *testing.T) {
		_, err := fs.Put(ctx, "cases/c2/draft.txt", "text/plain", strings.NewReader("draft"))
		gt.NoError(t, err).Required()

		gt.NoError(t, fs.Delete(ctx, "cases/c2/draft.txt")).Required()
		_, err = fs.Get(ctx, "cases/c2/draft.txt")
		gt.Error(t, err).Is(model.ErrNotFound)

		gt.NoError(t, fs.Delete(ctx, "cases/c2/draft.txt"))
	})

	t.Run("Get of unknown path returns ErrNotFound", func(t *testing.T) {
		_, err := fs.Get(ctx, "cases/none/missing.txt")
		gt.Error(t, err).Is(model.ErrNotFound)
	})
}

func TestMemoryStorage(t *testing.T) {
	m := storage.NewMemory()
	runFileStorageTest(t, m)

	ct, ok := m.ContentType("cases/c1/receipt.txt")
	gt.Bool(t, ok).True()
	gt.Value(t, ct).Equal("text/plain")
	gt.Number(t, m.Len()).Equal(1)
}

func TestGCSStorage(t *testing.T) {
	bucket := os.Getenv("TEST_GCS_BUCKET")
	if bucket == "" {
		t.Skip("TEST_GCS_BUCKET not set")
	}

	ctx := context.Background()
	g, err := storage.NewGCS(ctx, bucket, storage.WithObjectPrefix(fmt.Sprintf("test_%d", time.Now().UnixNano())))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, g.Close())
	})

	runFileStorageTest(t, g)
}
