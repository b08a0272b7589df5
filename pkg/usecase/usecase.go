package usecase

import (
	"time"

	"github.com/secmon-lab/grievance/pkg/domain/interfaces"
	"github.com/secmon-lab/grievance/pkg/domain/model/config"
)

type UseCases struct {
	repo       interfaces.Repository
	storage    interfaces.FileStorage
	workflow   *config.Workflow
	authSecret []byte
	authOpts   []AuthOption
	clock      func() time.Time

	Case        *CaseUseCase
	Appointment *AppointmentUseCase
	Auth        *AuthUseCase
}

type Option func(*UseCases)

func WithFileStorage(storage interfaces.FileStorage) Option {
	return func(uc *UseCases) {
		uc.storage = storage
	}
}

func WithWorkflow(cfg *config.Workflow) Option {
	return func(uc *UseCases) {
		uc.workflow = cfg
	}
}

// WithAuthSecret sets the HMAC key signing staff tokens
func WithAuthSecret(secret []byte, opts ...AuthOption) Option {
	return func(uc *UseCases) {
		uc.authSecret = secret
		uc.authOpts = opts
	}
}

func WithClock(clock func() time.Time) Option {
	return func(uc *UseCases) {
		uc.clock = clock
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:  repo,
		clock: time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Case = NewCaseUseCase(repo, uc.storage, uc.workflow, uc.clock)
	uc.Appointment = NewAppointmentUseCase(repo, uc.clock)

	authOpts := append([]AuthOption{WithAuthClock(uc.clock), WithTokenTTL(uc.workflow.GetTokenTTL())}, uc.authOpts...)
	uc.Auth = NewAuthUseCase(repo, uc.authSecret, authOpts...)

	return uc
}
