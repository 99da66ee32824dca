package store

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/propinspect/inspection-planner/internal/store/model"
	"gorm.io/gorm"
)

const personDateLockStmt = "SELECT pg_advisory_xact_lock(%d);"

// PersonDateKey identifies the capacity counter of one person on one day.
type PersonDateKey struct {
	PersonID uuid.UUID
	Date     model.Date
}

func (k PersonDateKey) String() string {
	return fmt.Sprintf("%s/%s", k.PersonID, k.Date)
}

func (k PersonDateKey) lockID() int64 {
	h := fnv.New64a()
	h.Write([]byte(k.String()))
	return int64(h.Sum64())
}

type Lock interface {
	// AcquirePersonDate takes an exclusive lock on every key for the rest of
	// the transaction found in ctx.
	AcquirePersonDate(ctx context.Context, keys ...PersonDateKey) (time.Duration, error)
}

// LockStore serializes capacity checks per (person, date). On postgres it
// uses transaction scoped advisory locks, anywhere else it falls back to an
// in-process keyed mutex released when the transaction ends.
type LockStore struct {
	db    *gorm.DB
	local *keyedMutex
}

var _ Lock = (*LockStore)(nil)

func NewLockStore(db *gorm.DB) *LockStore {
	return &LockStore{db: db, local: newKeyedMutex()}
}

func (l *LockStore) AcquirePersonDate(ctx context.Context, keys ...PersonDateKey) (time.Duration, error) {
	tx := txFromContext(ctx)
	if tx == nil || tx.tx == nil {
		return 0, ErrNoTransaction
	}

	// fixed order so two writers sharing keys cannot deadlock
	sorted := dedupKeys(keys)
	start := time.Now()

	if l.db.Dialector.Name() == dialectPostgres {
		for _, k := range sorted {
			if err := tx.tx.Exec(fmt.Sprintf(personDateLockStmt, k.lockID())).Error; err != nil {
				return time.Since(start), fmt.Errorf("failed to acquire lock %s: %w", k, err)
			}
		}
		return time.Since(start), nil
	}

	for _, k := range sorted {
		unlock, err := l.local.Lock(ctx, k.String())
		if err != nil {
			return time.Since(start), fmt.Errorf("failed to acquire lock %s: %w", k, err)
		}
		tx.onEnd(unlock)
	}
	return time.Since(start), nil
}

func dedupKeys(keys []PersonDateKey) []PersonDateKey {
	seen := make(map[string]struct{}, len(keys))
	out := make([]PersonDateKey, 0, len(keys))
	for _, k := range keys {
		if _, found := seen[k.String()]; found {
			continue
		}
		seen[k.String()] = struct{}{}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}
