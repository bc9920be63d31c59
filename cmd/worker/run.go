package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/finance-tracker/ledger/config"
	"github.com/finance-tracker/ledger/internal/infra/jobs"
	"github.com/finance-tracker/ledger/internal/integration/queue"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the scheduler, maintenance passes and task worker",
		Long: `Run every periodic pass and the task worker until interrupted.

With QUEUE_TRANSPORT=amqp the outbox is relayed to RabbitMQ and tasks are
executed by a queue consumer; otherwise the worker polls the task table.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := bootstrap(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.close()

			cfg := a.Config
			runner := jobs.NewRunner(a.Locker, cfg.Scheduler.LockTTL, a.Logger)

			g, ctx := errgroup.WithContext(ctx)
			for _, job := range periodicJobs(a) {
				job := job
				g.Go(func() error { return runner.Start(ctx, job) })
			}

			switch cfg.Queue.Transport {
			case config.TransportAMQP:
				client, err := queue.NewClient(cfg.Queue.AMQPURL, cfg.Queue.AMQPExchange, cfg.Queue.AMQPQueue)
				if err != nil {
					return fmt.Errorf("failed to connect to broker: %w", err)
				}
				defer client.Close()

				relay := queue.NewRelay(a.Tasks, client, a.WorkerConfig(), a.Logger)
				consumer := queue.NewConsumer(a.Tasks, a.Executor, a.Logger)
				g.Go(func() error { return relay.Start(ctx) })
				g.Go(func() error { return client.Consume(ctx, consumer.Handle) })
			default:
				worker := queue.NewWorker(a.Tasks, a.Executor, a.WorkerConfig(), a.Logger)
				g.Go(func() error { return worker.Start(ctx) })
			}

			a.Logger.Info("Worker running", "transport", cfg.Queue.Transport)
			return g.Wait()
		},
	}
}

// periodicJobs lists the passes the long-lived worker repeats.
func periodicJobs(a *app) []jobs.Job {
	cfg := a.Config.Scheduler
	return []jobs.Job{
		{
			Name:     "recurring",
			Interval: cfg.RecurringInterval,
			Run: func(ctx context.Context, now time.Time) error {
				_, err := a.Scheduler.ProcessDue(ctx, now)
				return err
			},
		},
		{
			Name:     "saving-plan-sweep",
			Interval: cfg.SweepInterval,
			Run: func(ctx context.Context, now time.Time) error {
				_, err := a.Lifecycle.SweepOverdue(ctx, now)
				return err
			},
		},
		{
			Name:     "saving-plan-progress",
			Interval: cfg.ProgressInterval,
			Run: func(ctx context.Context, now time.Time) error {
				_, err := a.Lifecycle.CheckProgress(ctx, now)
				return err
			},
		},
		{
			Name:     "task-housekeeping",
			Interval: cfg.HousekeepInterval,
			Run:      a.Housekeeper.Run,
		},
	}
}
