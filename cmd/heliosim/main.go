// Command heliosim builds a small task graph, runs the scheduler for a
// fixed duration, and prints periodic kernel statistics — the same
// create-a-backend-and-serve-it demo shape as the teacher's ublk-mem
// command, adapted from "serve block I/O" to "run a task graph".
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ehrlich-b/heliogo"
	"github.com/ehrlich-b/heliogo/internal/config"
	"github.com/ehrlich-b/heliogo/internal/logging"
	"github.com/ehrlich-b/heliogo/internal/task"
)

func main() {
	runFor := flag.Duration("duration", 2*time.Second, "how long to run the scheduler before stopping")
	workers := flag.Int("workers", 3, "number of periodic worker tasks to create")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	level := logging.LevelInfo
	if *verbose {
		level = logging.LevelDebug
	}
	logger := logging.NewLogger(&logging.Config{Level: level, Output: os.Stdout})

	k, err := heliogo.New(heliogo.Params{
		Config: config.DefaultConfig(),
		Logger: logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "heliosim: %v\n", err)
		os.Exit(1)
	}
	defer k.Close()

	for i := 0; i < *workers; i++ {
		name := fmt.Sprintf("worker-%d", i)
		count := 0
		handle, ok := k.Tasks.CreateTask(name, func(h task.Handle, _ any) {
			count++
		}, nil)
		if !ok {
			fmt.Fprintf(os.Stderr, "heliosim: failed to create task %s\n", name)
			os.Exit(1)
		}
		k.Tasks.Resume(handle)
	}

	info := k.SystemInfo()
	logger.Infof("%s %s: %d tasks, %d kernel blocks, %d user blocks", info.ProductName, info.Version(), k.Tasks.NumberOfTasks(), info.KernelBlocks, info.UserBlocks)

	stop := time.AfterFunc(*runFor, func() {
		k.Stop()
	})
	defer stop.Stop()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	done := make(chan struct{})
	go func() {
		k.Start()
		close(done)
	}()

	for {
		select {
		case <-done:
			printStats(logger, k)
			return
		case <-ticker.C:
			printStats(logger, k)
		}
	}
}

func printStats(logger *logging.Logger, k *heliogo.Kernel) {
	stats := k.MemoryStats()
	snap := k.Metrics().Snapshot()
	logger.Infof("kernel heap %d/%d bytes, user heap %d/%d bytes, dispatches=%d watchdogTrips=%d overflows=%d",
		stats.Kernel.UsedBytes, stats.Kernel.SizeBytes,
		stats.User.UsedBytes, stats.User.SizeBytes,
		snap.Dispatches, snap.WatchdogTrips, snap.Overflows)
}
