package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/config"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/route"
)

// script is a simulate input file:
//
//	guards:
//	  auth: {decision: redirect, target: /login}
//	steps:
//	  - {op: push, target: /account}
//	  - {op: guard, guard: auth, decision: continue}
//	  - {op: push, target: /account}
//	  - {op: back}
type script struct {
	Routes []string               `yaml:"routes"`
	Guards map[string]guardScript `yaml:"guards"`
	Steps  []step                 `yaml:"steps"`
}

// guardScript is what a named guard decides.
type guardScript struct {
	Decision string `yaml:"decision"` // continue, abort, redirect or fail
	Target   string `yaml:"target"`
}

type step struct {
	Op       string `yaml:"op"` // push, replace, back, forward or guard
	Target   string `yaml:"target"`
	Guard    string `yaml:"guard"`
	Decision string `yaml:"decision"`
}

func parseScript(r io.Reader) (*script, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var s script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && err != io.EOF {
		return nil, err
	}

	for name, g := range s.Guards {
		if _, err := g.decide(); err != nil {
			return nil, fmt.Errorf("guard %s: %w", name, err)
		}
	}
	for i, st := range s.Steps {
		switch st.Op {
		case "push", "replace":
			if st.Target == "" {
				return nil, fmt.Errorf("step %d: %s needs a target", i+1, st.Op)
			}
		case "back", "forward":
		case "guard":
			if st.Guard == "" {
				return nil, fmt.Errorf("step %d: guard needs a guard name", i+1)
			}
			if _, err := (guardScript{Decision: st.Decision, Target: st.Target}).decide(); err != nil {
				return nil, fmt.Errorf("step %d: %w", i+1, err)
			}
		default:
			return nil, fmt.Errorf("step %d: unknown op %q", i+1, st.Op)
		}
	}
	return &s, nil
}

func (g guardScript) decide() (route.Decision, error) {
	switch g.Decision {
	case "", "continue":
		return route.Continue(), nil
	case "abort":
		return route.Abort(), nil
	case "redirect":
		if g.Target == "" {
			return route.Decision{}, fmt.Errorf("redirect needs a target")
		}
		return route.RedirectPath(g.Target), nil
	case "fail":
		return route.Decision{}, nil
	default:
		return route.Decision{}, fmt.Errorf("unknown decision %q", g.Decision)
	}
}

// scriptedGuards holds the current decision of every guard the script names.
// Guards can be changed between steps.
type scriptedGuards struct {
	mu     sync.Mutex
	guards map[string]guardScript
}

func (s *scriptedGuards) set(name string, g guardScript) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guards[name] = g
}

func (s *scriptedGuards) guard(name string) route.Guard {
	return func(context.Context, *route.Location, *route.Location) (route.Decision, error) {
		s.mu.Lock()
		g := s.guards[name]
		s.mu.Unlock()

		if g.Decision == "fail" {
			return route.Decision{}, fmt.Errorf("guard %s failed", name)
		}
		return g.decide()
	}
}

func (s *scriptedGuards) registry() config.Registry {
	reg := config.Registry{}
	for name := range s.guards {
		reg.Register(name, s.guard(name))
	}
	return reg
}

func newSimulateCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "simulate SCRIPT",
		Short: "Run a script of navigations against the route documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			s, err := parseScript(file)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return simulate(cmd.Context(), cmd.OutOrStdout(), append(flags.routes, s.Routes...), s, flags.lang)
		},
	}
}

func simulate(ctx context.Context, out io.Writer, sources []string, s *script, lang string) error {
	guards := &scriptedGuards{guards: map[string]guardScript{}}
	for name, g := range s.Guards {
		guards.guards[name] = g
	}
	for _, st := range s.Steps {
		if _, ok := guards.guards[st.Guard]; st.Op == "guard" && !ok {
			guards.guards[st.Guard] = guardScript{}
		}
	}

	n, err := newNavigator(ctx, sources, guards.registry())
	if err != nil {
		return err
	}
	defer n.Close()

	// Failures of history moves only reach the error handlers.
	var historyErrs []error
	n.OnError(func(err error) {
		historyErrs = append(historyErrs, err)
	})

	if _, err := n.Start(ctx); err != nil {
		fmt.Fprintf(out, "start: %s\n", n.Describe(err, lang))
	} else {
		fmt.Fprintf(out, "start -> %s\n", n.CurrentRoute())
	}

	for _, st := range s.Steps {
		historyErrs = nil

		switch st.Op {
		case "push", "replace":
			var loc *route.Location
			if st.Op == "push" {
				loc, err = n.PushPath(ctx, st.Target)
			} else {
				loc, err = n.ReplacePath(ctx, st.Target)
			}
			if err != nil {
				fmt.Fprintf(out, "%s %s: %s\n", st.Op, st.Target, n.Describe(err, lang))
				continue
			}
			fmt.Fprintf(out, "%s %s -> %s\n", st.Op, st.Target, loc)

		case "back", "forward":
			if st.Op == "back" {
				n.Back()
			} else {
				n.Forward()
			}
			for _, err := range historyErrs {
				fmt.Fprintf(out, "%s: %s\n", st.Op, n.Describe(err, lang))
			}
			fmt.Fprintf(out, "%s -> %s (history at %s)\n", st.Op, n.CurrentRoute(), n.History.Location())

		case "guard":
			guards.set(st.Guard, guardScript{Decision: st.Decision, Target: st.Target})
			fmt.Fprintf(out, "guard %s -> %s\n", st.Guard, guardLabel(st.Decision))
		}
	}
	return nil
}

func guardLabel(decision string) string {
	if decision == "" {
		return "continue"
	}
	return decision
}
