package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/config"
)

func newWatchCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Validate route documents every time they change. URLs are only checked once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(flags.routes) == 0 {
				return fmt.Errorf("no route documents given, use --routes")
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			var mu sync.Mutex
			report := func(source string, f *config.File, err error) {
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					fmt.Fprintf(out, "%s: %v\n", source, err)
					return
				}
				used := config.Registry{}.Missing(f)
				fmt.Fprintf(out, "%s: %d routes, guards used: %v\n", source, countRoutes(f.Routes), used)
			}

			for _, source := range flags.routes {
				f, err := config.Load(ctx, source)
				report(source, f, err)
			}

			var wg sync.WaitGroup
			errs := make(chan error, len(flags.routes))
			for _, source := range flags.routes {
				if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
					continue
				}
				wg.Add(1)
				go func() {
					defer wg.Done()
					errs <- config.Watch(ctx, source, func(f *config.File, err error) {
						report(source, f, err)
					})
				}()
			}
			wg.Wait()
			close(errs)

			for err := range errs {
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func countRoutes(specs []config.RouteSpec) int {
	n := len(specs)
	for _, spec := range specs {
		n += countRoutes(spec.Children)
	}
	return n
}
