package main

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/statekit-dev/statekit/internal/config"
	"github.com/statekit-dev/statekit/pkg/devtool"
	"github.com/statekit-dev/statekit/pkg/instrument"
	"github.com/statekit-dev/statekit/pkg/store"
)

func benchCmd() *cobra.Command {
	var (
		configPath   string
		slices       int
		listeners    int
		dispatches   int
		serveDevtool bool
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark dispatch and notification throughput",
		Long: `Registers a number of counter slices, subscribes a number of
listeners, and measures synchronous dispatch throughput. With --devtool,
the inspector serves /ws, /state, and /metrics while the benchmark runs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("slices") {
				slices = cfg.Bench.Slices
			}
			if !cmd.Flags().Changed("listeners") {
				listeners = cfg.Bench.Listeners
			}
			if !cmd.Flags().Changed("dispatches") {
				dispatches = cfg.Bench.Dispatches
			}
			if slices < 1 {
				return fmt.Errorf("bench needs at least one slice, got %d", slices)
			}

			logger, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer logger.Sync()

			s := store.New(
				store.WithLogger(logger),
				store.WithObserver(instrument.Prometheus()),
			)

			if serveDevtool {
				insp := devtool.New(s,
					devtool.WithLogger(logger),
					devtool.WithHistory(cfg.Devtool.History),
				)
				s.AddObserver(insp)
				go func() {
					logger.Info("inspector listening", zap.String("addr", cfg.Devtool.Addr))
					if err := http.ListenAndServe(cfg.Devtool.Addr, insp.Handler()); err != nil {
						logger.Warn("inspector server stopped", zap.Error(err))
					}
				}()
			}

			actionIDs := make([]string, slices)
			for i := 0; i < slices; i++ {
				key := fmt.Sprintf("counter_%d", i)
				id := fmt.Sprintf("INCREMENT_%d", i)
				actionIDs[i] = id
				s.RegisterSlice(store.ActionTable{
					id: func(st store.State, p any) store.State {
						return store.State{key: st[key].(int) + p.(int)}
					},
				}, store.State{key: 0})
			}

			var notifications atomic.Int64
			for i := 0; i < listeners; i++ {
				s.Subscribe(func() { notifications.Add(1) })
			}

			logger.Info("bench starting",
				zap.Int("slices", slices),
				zap.Int("listeners", listeners),
				zap.Int("dispatches", dispatches),
			)

			start := time.Now()
			for i := 0; i < dispatches; i++ {
				if err := s.Dispatch(actionIDs[i%slices], 1); err != nil {
					return err
				}
			}
			elapsed := time.Since(start)

			logger.Info("bench complete",
				zap.Duration("elapsed", elapsed),
				zap.Float64("dispatches_per_sec", float64(dispatches)/elapsed.Seconds()),
				zap.Int64("notifications", notifications.Load()),
				zap.Uint64("seq", s.Seq()),
			)

			if serveDevtool {
				logger.Info("inspector still serving, ctrl-c to exit",
					zap.String("addr", cfg.Devtool.Addr))
				select {}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to statekit.yaml")
	cmd.Flags().IntVar(&slices, "slices", 4, "Number of state slices to register")
	cmd.Flags().IntVar(&listeners, "listeners", 16, "Number of subscribed listeners")
	cmd.Flags().IntVar(&dispatches, "dispatches", 100000, "Total dispatches to run")
	cmd.Flags().BoolVar(&serveDevtool, "devtool", false, "Serve the inspector while benchmarking")

	return cmd
}
