package config

import (
	"log/slog"

	"github.com/secmon-lab/grievance/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Auth holds CLI flags for staff token signing
type Auth struct {
	secret     string
	bcryptCost int
}

// Flags returns CLI flags for authentication configuration
func (a *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "auth-secret",
			Usage:       "HMAC secret signing staff tokens. A random secret is generated when empty, invalidating tokens on restart.",
			Category:    "Authentication",
			Sources:     cli.EnvVars("GRIEVANCE_AUTH_SECRET"),
			Destination: &a.secret,
		},
		&cli.IntFlag{
			Name:        "bcrypt-cost",
			Usage:       "bcrypt cost for staff passwords",
			Value:       12,
			Category:    "Authentication",
			Sources:     cli.EnvVars("GRIEVANCE_BCRYPT_COST"),
			Destination: &a.bcryptCost,
		},
	}
}

func (a Auth) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("secret_set", a.secret != ""),
		slog.Int("bcrypt_cost", a.bcryptCost),
	)
}

// Option returns the use case option carrying the signing secret
func (a *Auth) Option() usecase.Option {
	var secret []byte
	if a.secret != "" {
		secret = []byte(a.secret)
	}
	return usecase.WithAuthSecret(secret, usecase.WithBcryptCost(a.bcryptCost))
}
