package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/ggoodman/strongtyping-go/store"
	"github.com/ggoodman/strongtyping-go/store/memory"
	"github.com/ggoodman/strongtyping-go/store/redis"
	"github.com/ggoodman/strongtyping-go/textualize"
)

func newStoreCmd(a *app) *cobra.Command {
	var typeName string
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Save and load instances",
		Long: "Save and load instances of a struct type. Records live in redis when " +
			"--redis-addr (or STRONGTYPING_REDIS_ADDR) is set and in process memory otherwise.",
	}
	flags := cmd.PersistentFlags()
	flags.StringVarP(&typeName, "type", "t", "", "struct type of the records")
	flags.StringVar(&a.cfg.RedisAddr, "redis-addr", a.cfg.RedisAddr, "redis address; empty for an in-process store")
	flags.StringVar(&a.cfg.KeyPrefix, "key-prefix", a.cfg.KeyPrefix, "prefix of every redis key")
	_ = cmd.MarkPersistentFlagRequired("type")
	_ = cmd.RegisterFlagCompletionFunc("type", a.completeTypes)

	// records opens the backend for the duration of one command.
	records := func(ctx context.Context, opts ...store.RecordsOption) (*store.Records, func(), error) {
		t, err := a.lookupType(typeName)
		if err != nil {
			return nil, nil, err
		}
		s, err := a.openStorage(ctx)
		if err != nil {
			return nil, nil, err
		}
		opts = append([]store.RecordsOption{store.WithLogger(a.log)}, opts...)
		return store.NewRecords(s, t, opts...), func() { _ = s.Close() }, nil
	}

	var (
		id  string
		ttl time.Duration
	)
	put := &cobra.Command{
		Use:   "put <file>",
		Short: "Validate a YAML or JSON document and store it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			var opts []store.RecordsOption
			if ttl > 0 {
				opts = append(opts, store.WithRecordTTL(ttl))
			}
			recs, done, err := records(ctx, opts...)
			if err != nil {
				return err
			}
			defer done()

			t, _ := a.lookupType(typeName)
			inst, err := readDocument(t, args[0])
			if err != nil {
				return err
			}
			if id == "" {
				if id, err = recs.Save(ctx, inst); err != nil {
					return err
				}
			} else if err := recs.Put(ctx, id, inst); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	put.Flags().StringVar(&id, "id", "", "record id; a random one is generated when empty")
	put.Flags().DurationVar(&ttl, "ttl", 0, "expire the record after this long")

	var asJSON bool
	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Load a stored instance and render it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			recs, done, err := records(ctx)
			if err != nil {
				return err
			}
			defer done()

			inst, err := recs.Load(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				data, err := json.Marshal(inst)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}
			fmt.Fprintln(out, textualize.RenderWith(inst, textualize.ForWriter(out)))
			return nil
		},
	}
	get.Flags().BoolVar(&asJSON, "json", false, "print the stored JSON document instead of a tree")

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored record ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd)
			recs, done, err := records(ctx)
			if err != nil {
				return err
			}
			defer done()

			ids, err := recs.IDs(ctx)
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			recs, done, err := records(ctx)
			if err != nil {
				return err
			}
			defer done()
			return recs.Delete(ctx, args[0])
		},
	}

	cmd.AddCommand(put, get, list, del)
	return cmd
}

// openStorage connects to redis when an address is configured and falls back
// to an in-process store.
func (a *app) openStorage(ctx context.Context) (store.Storage, error) {
	if a.cfg.RedisAddr == "" {
		return memory.New(1024)
	}
	cl := goredis.NewClient(&goredis.Options{Addr: a.cfg.RedisAddr})
	if err := cl.Ping(ctx).Err(); err != nil {
		_ = cl.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return redis.New(redis.Config{Client: cl, KeyPrefix: a.cfg.KeyPrefix})
}
