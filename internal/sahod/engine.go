// Package sahod implements the envelope budgeting engine.
//
// Every exported operation is scoped to an owner. Resources of other
// owners are reported as not found.
package sahod

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sahod-planner/backend/internal/config"
	"github.com/sahod-planner/backend/internal/ledger"
	"github.com/sahod-planner/backend/internal/models"
	"github.com/sahod-planner/backend/internal/types"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Ledger is the contract of the ledger component the engine records
// income and postings with.
type Ledger interface {
	RecordEntry(ctx context.Context, entry models.LedgerEntry) (models.LedgerEntry, error)
	QueryEntries(ctx context.Context, owner uuid.UUID, filter ledger.Filter) ([]models.LedgerEntry, error)
	LinkInstance(ctx context.Context, owner, entryID, instanceID uuid.UUID) error
}

// Engine is the budgeting engine. It is safe for concurrent use.
type Engine struct {
	db     *gorm.DB
	ledger Ledger
	config config.Engine
	now    func() time.Time

	// Deduplicates concurrent lookups of the same current instance
	instances singleflight.Group
}

type Option func(*Engine)

// WithClock replaces the wall clock, e.g. for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func New(db *gorm.DB, l Ledger, cfg config.Engine, opts ...Option) *Engine {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	e := &Engine{
		db:     db,
		ledger: l,
		config: cfg,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Today returns the current date in the configured time zone.
func (e *Engine) Today() types.Date {
	return types.DateOf(e.now().In(e.config.Location))
}

// Config returns the engine configuration.
func (e *Engine) Config() config.Engine {
	return e.config
}
