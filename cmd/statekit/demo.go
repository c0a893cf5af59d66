package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/statekit-dev/statekit/pkg/store"
)

func demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the counter walkthrough",
		Long: `Runs a small counter slice through the store: two increments,
then a dispatch to an unregistered action to show the diagnostic path.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			defer logger.Sync()

			s := store.New(store.WithLogger(logger))
			s.RegisterSlice(store.ActionTable{
				"INCREMENT": func(st store.State, p any) store.State {
					return store.State{"count": st["count"].(int) + p.(int)}
				},
			}, store.State{"count": 0})

			unsubscribe := s.Subscribe(func() {
				fmt.Printf("state: %v\n", s.GetState())
			})
			defer unsubscribe()

			fmt.Printf("initial: %v\n", s.GetState())

			s.Dispatch("INCREMENT", 5)
			s.Dispatch("INCREMENT", 3)

			// Unregistered: logged, state unchanged, no notification.
			if err := s.Dispatch("DECREMENT", 1); err != nil {
				fmt.Printf("rejected: %v\n", err)
			}

			fmt.Printf("final: %v\n", s.GetState())
			return nil
		},
	}
}
