package usecase

import (
	"github.com/m-mizutani/nibbler/pkg/domain/interfaces"
	"github.com/m-mizutani/nibbler/pkg/infra"
	"github.com/m-mizutani/nibbler/pkg/registry"
)

const (
	// confidenceThreshold is the minimum analyzer confidence an improvement
	// must exceed before it is applied.
	confidenceThreshold = 0.7

	// maxCandidates bounds how many marker hits are analyzed per repository.
	// Search result order is best effort, so this is a heuristic, not a
	// correctness property.
	maxCandidates = 5

	// contextRadius is how many lines around the marker are sent to the
	// analyzer.
	contextRadius = 15
)

type UseCase struct {
	clients  *infra.Clients
	registry *registry.Registry
	pacer    Pacer
}

var _ interfaces.UseCase = (*UseCase)(nil)

type Option func(*UseCase)

// WithPacer swaps the pacing policy between per-repository steps.
func WithPacer(pacer Pacer) Option {
	return func(x *UseCase) {
		x.pacer = pacer
	}
}

func New(clients *infra.Clients, reg *registry.Registry, options ...Option) *UseCase {
	uc := &UseCase{
		clients:  clients,
		registry: reg,
		pacer:    DefaultPacer(),
	}
	for _, opt := range options {
		opt(uc)
	}
	return uc
}
