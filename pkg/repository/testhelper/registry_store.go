package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/nibbler/pkg/domain/interfaces"
	"github.com/m-mizutani/nibbler/pkg/domain/model"
)

// TestAll runs the shared RegistryStore contract tests against the given
// store implementation.
func TestAll(t *testing.T, store interfaces.RegistryStore) {
	ctx := context.Background()

	t.Run("load before any save returns empty", func(t *testing.T) {
		installations, err := store.Load(ctx)
		gt.NoError(t, err)
		gt.V(t, len(installations)).Equal(0)
	})

	t.Run("save and load roundtrip", func(t *testing.T) {
		now := time.Date(2026, 8, 29, 1, 0, 0, 0, time.UTC)
		saved := []*model.Installation{
			{
				ID:      100,
				Account: "blue",
				Repositories: []*model.Repository{
					{ID: 1, FullName: "blue/api", DefaultBranch: "main", Language: "Go"},
				},
				Enabled:   true,
				CreatedAt: now,
				UpdatedAt: now,
			},
			{
				ID:        200,
				Account:   "orange",
				Enabled:   false,
				CreatedAt: now,
				UpdatedAt: now,
			},
		}

		gt.NoError(t, store.Save(ctx, saved))

		loaded, err := store.Load(ctx)
		gt.NoError(t, err)
		gt.V(t, len(loaded)).Equal(2)

		byID := map[int64]*model.Installation{}
		for _, inst := range loaded {
			byID[int64(inst.ID)] = inst
		}

		blue := byID[100]
		gt.V(t, blue.Account).Equal("blue")
		gt.V(t, len(blue.Repositories)).Equal(1)
		gt.V(t, blue.Repositories[0].FullName).Equal("blue/api")
		gt.V(t, blue.Enabled).Equal(true)

		orange := byID[200]
		gt.V(t, orange.Account).Equal("orange")
		gt.V(t, orange.Enabled).Equal(false)
	})

	t.Run("save replaces the whole set", func(t *testing.T) {
		gt.NoError(t, store.Save(ctx, []*model.Installation{
			{ID: 300, Account: "green", Enabled: true},
		}))

		loaded, err := store.Load(ctx)
		gt.NoError(t, err)
		gt.V(t, len(loaded)).Equal(1)
		gt.V(t, loaded[0].Account).Equal("green")
	})
}
