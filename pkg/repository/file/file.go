package file

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/nibbler/pkg/domain/interfaces"
	"github.com/m-mizutani/nibbler/pkg/domain/model"
	"github.com/m-mizutani/nibbler/pkg/domain/types"
	"github.com/m-mizutani/nibbler/pkg/utils/logging"
)

// Store persists the installation set as a single JSON array file. The file
// is rewritten wholesale on every Save; there is a single writer (the
// process), so no file locking is used.
type Store struct {
	path string
}

var _ interfaces.RegistryStore = (*Store)(nil)

func New(path string) *Store {
	return &Store{path: path}
}

func (x *Store) Save(ctx context.Context, installations []*model.Installation) error {
	if installations == nil {
		installations = []*model.Installation{}
	}

	raw, err := json.MarshalIndent(installations, "", "  ")
	if err != nil {
		return goerr.Wrap(types.ErrPersistence, "failed to marshal installations", goerr.V("cause", err))
	}

	if dir := filepath.Dir(x.path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return goerr.Wrap(types.ErrPersistence, "failed to create store directory",
				goerr.V("dir", dir), goerr.V("cause", err),
			)
		}
	}

	if err := os.WriteFile(x.path, raw, 0600); err != nil {
		return goerr.Wrap(types.ErrPersistence, "failed to write store file",
			goerr.V("path", x.path), goerr.V("cause", err),
		)
	}

	return nil
}

// Load reads the full installation set. A missing file is a fresh start, and
// a malformed file is logged and treated as empty; neither crashes the
// process.
func (x *Store) Load(ctx context.Context) ([]*model.Installation, error) {
	raw, err := os.ReadFile(filepath.Clean(x.path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, goerr.Wrap(types.ErrPersistence, "failed to read store file",
			goerr.V("path", x.path), goerr.V("cause", err),
		)
	}

	var installations []*model.Installation
	if err := json.Unmarshal(raw, &installations); err != nil {
		logging.From(ctx).Warn("store file is malformed, starting empty",
			slog.String("path", x.path),
			slog.Any("error", err),
		)
		return nil, nil
	}

	return installations, nil
}
