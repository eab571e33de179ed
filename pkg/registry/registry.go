package registry

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/nibbler/pkg/domain/interfaces"
	"github.com/m-mizutani/nibbler/pkg/domain/model"
	"github.com/m-mizutani/nibbler/pkg/domain/types"
	"github.com/m-mizutani/nibbler/pkg/utils/logging"
)

// Registry owns the durable bookkeeping of monitored installations. The
// in-memory table is the working copy; the store is rewritten wholesale on
// every mutating call. A failed write keeps the in-memory state so the next
// mutation retries it.
type Registry struct {
	mu    sync.Mutex
	table map[types.GitHubAppInstallID]*model.Installation
	store interfaces.RegistryStore
}

func New(store interfaces.RegistryStore) *Registry {
	return &Registry{
		table: make(map[types.GitHubAppInstallID]*model.Installation),
		store: store,
	}
}

// Load merges the persisted installation set into the in-memory table. Load
// failures other than a missing file surface as errors; the caller decides
// whether they are fatal.
func (x *Registry) Load(ctx context.Context) error {
	installations, err := x.store.Load(ctx)
	if err != nil {
		return err
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	for _, inst := range installations {
		x.table[inst.ID] = inst.Clone()
	}

	logging.From(ctx).Info("loaded installation registry",
		slog.Int("installations", len(x.table)),
	)
	return nil
}

// Record inserts or fully replaces the installation record and persists
// immediately.
func (x *Registry) Record(ctx context.Context, inst *model.Installation, repos []*model.Repository) error {
	if err := inst.Validate(); err != nil {
		return err
	}

	x.mu.Lock()
	record := inst.Clone()
	record.Repositories = nil
	for _, repo := range repos {
		r := *repo
		record.Repositories = append(record.Repositories, &r)
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	x.table[record.ID] = record
	x.mu.Unlock()

	x.persist(ctx)
	return nil
}

// AddRepository appends a repository to an installation. It is idempotent:
// an already-bound full name is a no-op. An unknown installation is created
// on the fly (self-healing insert).
func (x *Registry) AddRepository(ctx context.Context, installID types.GitHubAppInstallID, account string, repo *model.Repository) error {
	if err := repo.Validate(); err != nil {
		return err
	}

	x.mu.Lock()
	now := time.Now().UTC()
	inst, ok := x.table[installID]
	if !ok {
		inst = &model.Installation{
			ID:        installID,
			Account:   account,
			Enabled:   true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		x.table[installID] = inst
	}

	if inst.HasRepository(repo.FullName) {
		x.mu.Unlock()
		return nil
	}

	r := *repo
	inst.Repositories = append(inst.Repositories, &r)
	inst.UpdatedAt = now
	x.mu.Unlock()

	x.persist(ctx)
	return nil
}

// RemoveRepository drops the binding for the given full name. Unknown
// installation or unbound name is a no-op.
func (x *Registry) RemoveRepository(ctx context.Context, installID types.GitHubAppInstallID, fullName string) error {
	x.mu.Lock()
	inst, ok := x.table[installID]
	if !ok {
		x.mu.Unlock()
		return nil
	}

	var kept []*model.Repository
	for _, repo := range inst.Repositories {
		if repo.FullName != fullName {
			kept = append(kept, repo)
		}
	}
	if len(kept) == len(inst.Repositories) {
		x.mu.Unlock()
		return nil
	}
	inst.Repositories = kept
	inst.UpdatedAt = time.Now().UTC()
	x.mu.Unlock()

	x.persist(ctx)
	return nil
}

// Remove deletes the installation record entirely (explicit invalidation,
// e.g. the app was uninstalled).
func (x *Registry) Remove(ctx context.Context, installID types.GitHubAppInstallID) error {
	x.mu.Lock()
	if _, ok := x.table[installID]; !ok {
		x.mu.Unlock()
		return nil
	}
	delete(x.table, installID)
	x.mu.Unlock()

	x.persist(ctx)
	return nil
}

// ReconcileSource supplies the external source-of-truth enumerations.
type ReconcileSource interface {
	ListInstallations(ctx context.Context) ([]*model.InstallationInfo, error)
	ListInstallationRepos(ctx context.Context, installID types.GitHubAppInstallID) ([]*model.Repository, error)
}

// ReconcileFromSource clears the table and rebuilds it entirely from the
// source of truth. An installation whose repository listing fails is skipped
// and logged, never fatal. The store is written once at the end.
func (x *Registry) ReconcileFromSource(ctx context.Context, src ReconcileSource) error {
	logger := logging.From(ctx)

	infos, err := src.ListInstallations(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list installations from source")
	}

	now := time.Now().UTC()
	rebuilt := make(map[types.GitHubAppInstallID]*model.Installation, len(infos))
	var skipped int
	for _, info := range infos {
		repos, err := src.ListInstallationRepos(ctx, info.ID)
		if err != nil {
			skipped++
			logger.Warn("skipping installation: repository listing failed",
				slog.Int64("install_id", int64(info.ID)),
				slog.String("account", info.Account),
				slog.Any("error", err),
			)
			continue
		}

		rebuilt[info.ID] = &model.Installation{
			ID:           info.ID,
			Account:      info.Account,
			Repositories: repos,
			Enabled:      true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}

	x.mu.Lock()
	x.table = rebuilt
	x.mu.Unlock()

	logger.Info("reconciled registry from source",
		slog.Int("installations", len(rebuilt)),
		slog.Int("skipped", skipped),
	)

	x.persist(ctx)
	return nil
}

// Deduplicate enforces that each repository full name is bound by at most
// one retained installation. For each duplicated name, the installation with
// the newest createdAt keeps the binding; ties retain the one whose decimal
// identifier sorts lexicographically smaller. Only the duplicate bindings
// are discarded, never the installation records. Idempotent.
func (x *Registry) Deduplicate(ctx context.Context) error {
	x.mu.Lock()

	owners := make(map[string][]*model.Installation)
	for _, inst := range x.table {
		for _, repo := range inst.Repositories {
			owners[repo.FullName] = append(owners[repo.FullName], inst)
		}
	}

	var dropped int
	now := time.Now().UTC()
	for fullName, insts := range owners {
		if len(insts) < 2 {
			continue
		}

		sort.Slice(insts, func(i, j int) bool {
			if !insts[i].CreatedAt.Equal(insts[j].CreatedAt) {
				return insts[i].CreatedAt.After(insts[j].CreatedAt)
			}
			return strconv.FormatInt(int64(insts[i].ID), 10) < strconv.FormatInt(int64(insts[j].ID), 10)
		})

		for _, loser := range insts[1:] {
			var kept []*model.Repository
			for _, repo := range loser.Repositories {
				if repo.FullName != fullName {
					kept = append(kept, repo)
				}
			}
			loser.Repositories = kept
			loser.UpdatedAt = now
			dropped++
		}
	}

	x.mu.Unlock()

	if dropped > 0 {
		logging.From(ctx).Info("deduplicated repository bindings",
			slog.Int("dropped", dropped),
		)
		x.persist(ctx)
	}
	return nil
}

// ValidateAgainstSource removes installations that the source of truth
// reports as definitely gone. Any other error leaves the record untouched.
func (x *Registry) ValidateAgainstSource(ctx context.Context, exists func(ctx context.Context, installID types.GitHubAppInstallID) (bool, error)) error {
	logger := logging.From(ctx)

	x.mu.Lock()
	ids := make([]types.GitHubAppInstallID, 0, len(x.table))
	for id := range x.table {
		ids = append(ids, id)
	}
	x.mu.Unlock()

	var removed int
	for _, id := range ids {
		ok, err := exists(ctx, id)
		if err != nil {
			logger.Warn("installation existence check failed, keeping record",
				slog.Int64("install_id", int64(id)),
				slog.Any("error", err),
			)
			continue
		}
		if ok {
			continue
		}

		x.mu.Lock()
		delete(x.table, id)
		x.mu.Unlock()
		removed++
		logger.Info("removed installation no longer known to source",
			slog.Int64("install_id", int64(id)),
		)
	}

	if removed > 0 {
		x.persist(ctx)
	}
	return nil
}

// Find returns the installation binding the given repository, or an
// ErrNotFound-wrapped error when no retained installation binds it.
func (x *Registry) Find(owner, name string) (*model.Installation, error) {
	fullName := owner + "/" + name

	x.mu.Lock()
	defer x.mu.Unlock()
	for _, inst := range x.table {
		if inst.HasRepository(fullName) {
			return inst.Clone(), nil
		}
	}

	return nil, goerr.Wrap(types.ErrNotFound, "no installation binds repository",
		goerr.V("repo", fullName),
	)
}

// ListEnabled returns a snapshot of all enabled installations, ordered by
// identifier for deterministic iteration.
func (x *Registry) ListEnabled() []*model.Installation {
	x.mu.Lock()
	defer x.mu.Unlock()

	var result []*model.Installation
	for _, inst := range x.table {
		if inst.Enabled {
			result = append(result, inst.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// TouchLastRun records the completion time of the latest per-repository run
// for the installation.
func (x *Registry) TouchLastRun(ctx context.Context, installID types.GitHubAppInstallID, at time.Time) error {
	x.mu.Lock()
	inst, ok := x.table[installID]
	if !ok {
		x.mu.Unlock()
		return goerr.Wrap(types.ErrNotFound, "unknown installation",
			goerr.V("install_id", installID),
		)
	}
	at = at.UTC()
	inst.LastRun = &at
	inst.UpdatedAt = at
	x.mu.Unlock()

	x.persist(ctx)
	return nil
}

// persist rewrites the store with the full table. Write errors are logged
// but never roll back the in-memory state: the next mutation retries.
func (x *Registry) persist(ctx context.Context) {
	x.mu.Lock()
	snapshot := make([]*model.Installation, 0, len(x.table))
	for _, inst := range x.table {
		snapshot = append(snapshot, inst.Clone())
	}
	x.mu.Unlock()

	sort.Slice(snapshot, func(i, j int) bool { return snapshot[i].ID < snapshot[j].ID })

	if err := x.store.Save(ctx, snapshot); err != nil {
		logging.From(ctx).Error("failed to persist registry, keeping in-memory state",
			slog.Any("error", err),
		)
	}
}
