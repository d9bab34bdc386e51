package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hostelease/hostelease/app/jobs"
	"github.com/hostelease/hostelease/config"
	"github.com/hostelease/hostelease/pkg/cache"
	"github.com/hostelease/hostelease/pkg/database"
	"github.com/hostelease/hostelease/pkg/queue"
)

var queueWorkersFlag int

// hostelease queue:work runs a standalone worker process against the
// Redis queue, for deployments that keep workers off the web node.
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start a standalone queue worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		if err := cache.Connect(); err != nil {
			fmt.Println("redis unavailable, using the in-process memory queue")
		}

		queue.UseDB(database.DB)
		if config.QueueDriver() == "redis" && cache.RDB != nil {
			queue.SetDriver(queue.NewRedisDriver(cache.RDB))
		}
		jobs.Init(database.DB)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 5
		}

		fmt.Printf("Queue worker started (%d workers). Press Ctrl+C to stop.\n", workers)
		queue.StartWorkers(ctx, workers)

		<-ctx.Done()
		fmt.Println("\nQueue worker stopped.")
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 5, "Number of concurrent workers")
}
