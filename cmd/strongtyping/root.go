package main

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ggoodman/strongtyping-go/internal/logctx"
	"github.com/ggoodman/strongtyping-go/typed"
)

// app is the state shared by every subcommand.
type app struct {
	cfg   config
	types map[string]*typed.Type
	log   *slog.Logger
}

func newRootCmd(cfg config, types map[string]*typed.Type) *cobra.Command {
	a := &app{cfg: cfg, types: types, log: slog.Default()}

	root := &cobra.Command{
		Use:          "strongtyping",
		Short:        "Inspect, validate and store strongly typed records",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			l, err := newLogger(cmd.ErrOrStderr(), a.cfg.LogLevel, a.cfg.LogFormat)
			if err != nil {
				return err
			}
			a.log = l
			typed.SetLogger(l)
			cmd.SetContext(logctx.WithCommandData(commandContext(cmd), &logctx.CommandData{Name: cmd.CommandPath()}))
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&a.cfg.LogFormat, "log-format", cfg.LogFormat, "log format (text, logfmt, json)")

	root.AddCommand(
		newDocCmd(a),
		newSchemaCmd(a),
		newShowCmd(a),
		newStoreCmd(a),
	)
	return root
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// lookupType resolves a declared type by name, ignoring case.
func (a *app) lookupType(name string) (*typed.Type, error) {
	if t, ok := a.types[name]; ok {
		return t, nil
	}
	for n, t := range a.types {
		if strings.EqualFold(n, name) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("unknown type %q (known: %s)", name, strings.Join(a.typeNames(), ", "))
}

func (a *app) typeNames() []string {
	names := make([]string, 0, len(a.types))
	for n := range a.types {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// completeTypes offers the declared type names for shell completion.
func (a *app) completeTypes(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return a.typeNames(), cobra.ShellCompDirectiveNoFileComp
}
