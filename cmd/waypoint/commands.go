package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/config"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/route"
)

type rootFlags struct {
	routes   []string
	logPath  string
	logLevel string
	lang     string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:          "waypoint",
		Short:        "Inspect and exercise waypoint route documents",
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			waypoint.Init(waypoint.Options{LogPath: flags.logPath, LogLevel: flags.logLevel})
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			waypoint.Close()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringSliceVarP(&flags.routes, "routes", "r", nil, "route document, file or http(s) URL (repeatable)")
	pf.StringVar(&flags.logPath, "log-path", "", "also write logs to this file")
	pf.StringVar(&flags.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	pf.StringVar(&flags.lang, "lang", "en", "language for failure descriptions")

	cmd.AddCommand(
		newResolveCmd(flags),
		newSimulateCmd(flags),
		newWatchCmd(flags),
	)
	return cmd
}

// newNavigator builds a navigator from the route documents. Guards named in
// the documents and missing from reg continue every navigation.
func newNavigator(ctx context.Context, sources []string, reg config.Registry) (*waypoint.Navigator, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no route documents given, use --routes")
	}

	doc, err := config.LoadAll(ctx, sources...)
	if err != nil {
		return nil, err
	}

	if reg == nil {
		reg = config.Registry{}
	}
	for _, name := range reg.Missing(doc) {
		reg.Register(name, route.AllowIf(func(_, _ *route.Location) bool { return true }))
	}

	return waypoint.New(ctx, waypoint.Setup{Document: doc, Guards: reg})
}

// resolved is the JSON form of a resolved location.
type resolved struct {
	Target         string              `json:"target"`
	Name           string              `json:"name,omitempty"`
	Path           string              `json:"path,omitempty"`
	FullPath       string              `json:"full_path,omitempty"`
	Params         map[string]string   `json:"params,omitempty"`
	Query          map[string][]string `json:"query,omitempty"`
	Hash           string              `json:"hash,omitempty"`
	Meta           map[string]any      `json:"meta,omitempty"`
	Matched        []string            `json:"matched,omitempty"`
	RedirectedFrom []string            `json:"redirected_from,omitempty"`
	Error          string              `json:"error,omitempty"`
}

func newResolveCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve TARGET...",
		Short: "Print the locations targets resolve to, following route redirects",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := newNavigator(cmd.Context(), flags.routes, nil)
			if err != nil {
				return err
			}
			defer n.Close()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			for _, target := range args {
				out := resolved{Target: target}

				loc, err := n.Resolve(route.Path(target))
				if err != nil {
					out.Error = n.Describe(err, flags.lang)
				} else {
					out.Name = loc.Name
					out.Path = loc.Path
					out.FullPath = loc.FullPath
					out.Params = loc.Params
					out.Query = loc.Query
					out.Hash = loc.Hash
					out.Meta = loc.Meta
					for _, rec := range loc.Matched {
						out.Matched = append(out.Matched, rec.Path)
					}
					for _, from := range loc.RedirectChain() {
						out.RedirectedFrom = append(out.RedirectedFrom, from.FullPath)
					}
				}

				if err := enc.Encode(out); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
