package cmd

import (
	"loanbook/worker"
	"loanbook/worker/accrual"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "run loanbook background workers",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		eng := provideEngine(database)
		if err := eng.Load(ctx); err != nil {
			logrus.WithError(err).Fatal("load ledger failed")
		}

		jobs := []worker.IJob{
			accrual.New(provideConfig(), eng, providePositionStore(database), providePropertyStore(database)),
		}

		ctx = signal.WithContext(ctx)

		var g errgroup.Group
		for _, job := range jobs {
			job := job
			g.Go(func() error {
				if err := job.Start(); err != nil {
					return err
				}

				<-ctx.Done()
				return job.Stop()
			})
		}

		if err := g.Wait(); err != nil {
			logrus.WithError(err).Error("worker aborted")
		}
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
