package accrual

import (
	"context"
	"time"

	"loanbook/core"
	"loanbook/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"github.com/robfig/cron/v3"
)

const checkpointKey = "accrual_checkpoint"

// Worker accrual sweep worker. Interest is settled lazily whenever a
// position is touched; the sweep touches idle positions so stored balances
// and the read surface track time even without user traffic.
type Worker struct {
	worker.BaseJob
	Config        *core.Config
	Engine        core.ILendingEngine
	PositionStore core.IPositionStore
	Property      property.Store
}

// New new accrual sweep worker
func New(
	cfg *core.Config,
	engine core.ILendingEngine,
	positionStore core.IPositionStore,
	property property.Store,
) *Worker {
	job := Worker{
		Config:        cfg,
		Engine:        engine,
		PositionStore: positionStore,
		Property:      property,
	}

	l, _ := time.LoadLocation(job.Config.App.Location)
	job.Cron = cron.New(cron.WithLocation(l))
	spec := "@every 10m"
	job.Cron.AddFunc(spec, job.Run)
	job.OnWork = func() error {
		return job.onWork(context.Background())
	}

	return &job
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "accrual")

	positions, err := w.PositionStore.All(ctx)
	if err != nil {
		log.WithError(err).Errorln("positions.All")
		return err
	}

	var touched int
	for _, position := range positions {
		if !position.Supplied.IsPositive() && !position.Borrowed.IsPositive() {
			continue
		}

		if err := w.Engine.Accrue(ctx, position.Account, position.Symbol); err != nil {
			log.WithError(err).Errorln("engine.Accrue", position.Account, position.Symbol)
			continue
		}
		touched++
	}

	if err := w.Property.Save(ctx, checkpointKey, time.Now().Unix()); err != nil {
		log.WithError(err).Errorln("property.Save", checkpointKey)
		return err
	}

	log.Debugln("accrual sweep touched", touched, "positions")
	return nil
}
