package interfaces

import (
	"context"

	"github.com/m-mizutani/nibbler/pkg/domain/model"
)

// RegistryStore persists the full installation set. Save rewrites the whole
// set on every call; Load reads it back at startup.
type RegistryStore interface {
	Save(ctx context.Context, installations []*model.Installation) error
	Load(ctx context.Context) ([]*model.Installation, error)
}
