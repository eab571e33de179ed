package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/nibbler/pkg/domain/interfaces"
	"github.com/m-mizutani/nibbler/pkg/domain/model"
)

// Store is an in-memory RegistryStore, mainly for tests.
type Store struct {
	mu            sync.Mutex
	installations []*model.Installation
	saveCount     int
}

var _ interfaces.RegistryStore = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (x *Store) Save(ctx context.Context, installations []*model.Installation) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	copied := make([]*model.Installation, len(installations))
	for i, inst := range installations {
		copied[i] = inst.Clone()
	}
	x.installations = copied
	x.saveCount++

	return nil
}

func (x *Store) Load(ctx context.Context) ([]*model.Installation, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	copied := make([]*model.Installation, len(x.installations))
	for i, inst := range x.installations {
		copied[i] = inst.Clone()
	}
	return copied, nil
}

// SaveCount returns how many times Save has been called.
func (x *Store) SaveCount() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.saveCount
}
