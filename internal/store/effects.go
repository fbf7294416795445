package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/portfolio"
)

// Fetcher loads the whole portfolio in one call.
type Fetcher interface {
	FetchAll(ctx context.Context) (portfolio.Snapshot, error)
}

// LoadEffect answers every LoadTriggered with exactly one LoadSucceeded or
// LoadFailed carrying the trigger's sequence number. Overlapping triggers
// each fetch; the reducer drops results of superseded triggers.
type LoadEffect struct {
	fetcher Fetcher
	logger  *zap.Logger
	metrics *Metrics
}

// NewLoadEffect creates the load effect. logger and metrics may be nil.
func NewLoadEffect(fetcher Fetcher, logger *zap.Logger, metrics *Metrics) *LoadEffect {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoadEffect{fetcher: fetcher, logger: logger, metrics: metrics}
}

func (e *LoadEffect) Accepts(a portfolio.Action) bool {
	_, ok := a.(portfolio.LoadTriggered)
	return ok
}

func (e *LoadEffect) Run(ctx context.Context, a portfolio.Action, dispatch Dispatch) {
	trigger, ok := a.(portfolio.LoadTriggered)
	if !ok {
		return
	}

	start := time.Now()
	snap, err := e.fetch(ctx)
	elapsed := time.Since(start)

	if err != nil {
		msg := ErrorMessage(err)
		e.logger.Warn("portfolio load failed",
			zap.Uint64("seq", trigger.Seq),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		e.metrics.observeLoad(elapsed, outcomeFailure)
		dispatch(portfolio.LoadFailed{Seq: trigger.Seq, Message: msg})
		return
	}

	e.logger.Info("portfolio loaded",
		zap.Uint64("seq", trigger.Seq),
		zap.Duration("elapsed", elapsed),
		zap.Int("skills", len(snap.Skills)),
		zap.Int("projects", len(snap.Projects)))
	e.metrics.observeLoad(elapsed, outcomeSuccess)
	dispatch(portfolio.Succeeded(trigger.Seq, snap))
}

// fetch converts a panicking fetcher into an error so the trigger still
// gets its terminal action.
func (e *LoadEffect) fetch(ctx context.Context) (snap portfolio.Snapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("fetcher panicked: %v", r)
		}
	}()
	return e.fetcher.FetchAll(ctx)
}

// ErrorMessage extracts the display message for a load failure.
func ErrorMessage(err error) string {
	if err == nil || err.Error() == "" {
		return portfolio.DefaultLoadError
	}
	return err.Error()
}

// Writer receives admin edits. Apply must record an edit without blocking
// so edits reach it in dispatch order; Settle waits out the reply.
type Writer interface {
	Apply(a portfolio.Action) error
	Settle(ctx context.Context) error
}

// SyncEffect writes admin edits through to the provider so that a later
// load returns them. Edits are applied from Prepare, under the dispatch
// lock, so a LoadTriggered dispatched after an edit always fetches it. It
// never dispatches.
type SyncEffect struct {
	writer Writer
	logger *zap.Logger
}

func NewSyncEffect(writer Writer, logger *zap.Logger) *SyncEffect {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncEffect{writer: writer, logger: logger}
}

func (e *SyncEffect) Accepts(a portfolio.Action) bool {
	switch a.(type) {
	case portfolio.PersonalInfoReplaced,
		portfolio.SkillAdded, portfolio.SkillReplaced, portfolio.SkillRemoved,
		portfolio.ProjectAdded, portfolio.ProjectReplaced, portfolio.ProjectRemoved,
		portfolio.ProjectFeaturedToggled:
		return true
	}
	return false
}

func (e *SyncEffect) Prepare(a portfolio.Action) {
	if err := e.writer.Apply(a); err != nil {
		e.logger.Warn("provider write failed", zap.String("action", a.Type()), zap.Error(err))
	}
}

func (e *SyncEffect) Run(ctx context.Context, a portfolio.Action, _ Dispatch) {
	if err := e.writer.Settle(ctx); err != nil {
		e.logger.Warn("provider write not acknowledged", zap.String("action", a.Type()), zap.Error(err))
		return
	}
	e.logger.Debug("provider write completed", zap.String("action", a.Type()))
}
