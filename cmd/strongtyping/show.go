package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/ggoodman/strongtyping-go/textualize"
	"github.com/ggoodman/strongtyping-go/typed"
)

func newShowCmd(a *app) *cobra.Command {
	var (
		typeName string
		watch    bool
		ascii    bool
	)
	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Validate a YAML or JSON document and render the resulting instance",
		Long: "Read a YAML or JSON document, build an instance of --type from it and print the " +
			"normalized values as a tree. With --watch the document is rendered again every time it changes. " +
			"A version key must be a quoted string: an unquoted 1.10 is read as a number and refused.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.lookupType(typeName)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			glyphs := textualize.ForWriter(out)
			if ascii {
				glyphs = textualize.ASCII
			}
			path := args[0]
			if err := showFile(out, t, path, glyphs); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			ctx := commandContext(cmd)
			err = watchFile(ctx, a.log, path, func() {
				fmt.Fprintln(out)
				if err := showFile(out, t, path, glyphs); err != nil {
					a.log.ErrorContext(ctx, "document rejected", slog.String("file", path), slog.Any("err", err))
				}
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "struct type the document describes")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "render again whenever the file changes")
	cmd.Flags().BoolVar(&ascii, "ascii", false, "draw the tree with ASCII characters only")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.RegisterFlagCompletionFunc("type", a.completeTypes)
	return cmd
}

// readDocument decodes a YAML or JSON document into an instance of t. The
// document goes through FromDict, so a "version" key triggers migrations.
func readDocument(t *typed.Type, path string) (*typed.Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	inst, err := t.FromDict(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inst, nil
}

func showFile(w io.Writer, t *typed.Type, path string, g textualize.Glyphs) error {
	inst, err := readDocument(t, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s\n%s\n", t.Name(), textualize.RenderWith(inst, g))
	return nil
}

// watchFile calls onChange after every write, creation or rename of path
// until ctx is done. The parent directory is watched so editors that replace
// the file are followed.
func watchFile(ctx context.Context, log *slog.Logger, path string, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	defer w.Close()

	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	log.DebugContext(ctx, "watching", slog.String("file", path))

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return errors.New("file watcher closed")
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				onChange()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return errors.New("file watcher closed")
			}
			log.WarnContext(ctx, "file watcher error", slog.Any("err", err))
		}
	}
}
