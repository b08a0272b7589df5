package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grievance/pkg/domain/interfaces"
	"github.com/secmon-lab/grievance/pkg/service/storage"
	"github.com/secmon-lab/grievance/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Storage holds CLI flags for the document storage backend
type Storage struct {
	backend string
	bucket  string
	prefix  string
}

// Flags returns CLI flags for storage configuration
func (s *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage-backend",
			Usage:       "Document storage backend (gcs or memory)",
			Value:       "memory",
			Category:    "Storage",
			Sources:     cli.EnvVars("GRIEVANCE_STORAGE_BACKEND"),
			Destination: &s.backend,
		},
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "Cloud Storage bucket for case documents (required when using gcs backend)",
			Category:    "Storage",
			Sources:     cli.EnvVars("GRIEVANCE_GCS_BUCKET"),
			Destination: &s.bucket,
		},
		&cli.StringFlag{
			Name:        "gcs-prefix",
			Usage:       "Object name prefix in the bucket",
			Category:    "Storage",
			Sources:     cli.EnvVars("GRIEVANCE_GCS_PREFIX"),
			Destination: &s.prefix,
		},
	}
}

// Configure initializes the file storage. The returned function releases it.
func (s *Storage) Configure(ctx context.Context) (interfaces.FileStorage, func(), error) {
	switch s.backend {
	case "gcs":
		if s.bucket == "" {
			return nil, nil, goerr.Wrap(ErrInvalidConfig, "gcs-bucket is required when using gcs backend")
		}
		var opts []storage.GCSOption
		if s.prefix != "" {
			opts = append(opts, storage.WithObjectPrefix(s.prefix))
		}
		client, err := storage.NewGCS(ctx, s.bucket, opts...)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to initialize GCS storage")
		}
		logging.Default().Info("Using Cloud Storage for documents", "bucket", s.bucket, "prefix", s.prefix)
		return client, func() {
			if err := client.Close(); err != nil {
				logging.Default().Error("failed to close GCS client", "error", err.Error())
			}
		}, nil

	case "memory":
		logging.Default().Info("Using in-memory document storage (development mode)")
		return storage.NewMemory(), func() {}, nil

	default:
		return nil, nil, goerr.Wrap(ErrInvalidBackend, "unknown storage backend", goerr.V(BackendKey, s.backend))
	}
}
