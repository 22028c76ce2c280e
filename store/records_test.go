package store_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/require"

	"github.com/ggoodman/strongtyping-go/internal/logctx"
	"github.com/ggoodman/strongtyping-go/store"
	"github.com/ggoodman/strongtyping-go/store/memory"
	"github.com/ggoodman/strongtyping-go/typed"
)

func newMemory(t *testing.T) *memory.Storage {
	t.Helper()
	s, err := memory.New(100)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

var point = typed.NewBuilder("Point").
	Integer("x", typed.Range(0, 10)).
	Integer("y").
	Enum("color", []string{"red", "green"}).
	MustBuild()

func TestRecordsRoundTrip(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	log := slog.New(logctx.Handler{Handler: slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})})
	recs := store.NewRecords(newMemory(t), point, store.WithLogger(log))

	p := point.MustNew(3, 4, "green")
	id, err := recs.Save(ctx, p)
	require.NoError(t, err)
	require.Len(t, id, 36)

	back, err := recs.Load(ctx, id)
	require.NoError(t, err)
	require.True(t, back.Equal(p))
	require.Contains(t, buf.String(), "rec.type=Point")
	require.Contains(t, buf.String(), "rec.id="+id)

	ids, err := recs.IDs(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{id}, ids)

	require.NoError(t, recs.Delete(ctx, id))
	_, err = recs.Load(ctx, id)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestRecordsRejectForeignInstances(t *testing.T) {
	other := typed.NewBuilder("Other").Integer("x").MustBuild()
	recs := store.NewRecords(newMemory(t), point)
	require.Error(t, recs.Put(context.Background(), "id", other.MustNew()))
}

func TestRecordsNamespaceAndTTL(t *testing.T) {
	ctx := context.Background()
	s := newMemory(t)
	recs := store.NewRecords(s, point, store.WithRecordNamespace("points"), store.WithRecordTTL(time.Minute))
	require.NoError(t, recs.Put(ctx, "p1", point.MustNew()))

	item, err := s.Get(ctx, "p1", store.WithNamespace("points"))
	require.NoError(t, err)
	require.NotNil(t, item)
	require.NotNil(t, item.ExpiresAt)
	require.JSONEq(t, `{"x":0,"y":0,"color":"red"}`, string(item.Data))
}

func TestRecordsMigrateOnLoad(t *testing.T) {
	ctx := context.Background()
	s := newMemory(t)
	v2 := typed.NewBuilder("Settings").
		Version("2.0").
		Integer("retries", typed.Since("2.0")).
		Migrate(func(t *typed.Type, data map[string]any, from *semver.Version) (*typed.Instance, error) {
			return t.NewFromMap(map[string]any{"retries": data["attempts"]})
		}).
		MustBuild()
	require.NoError(t, s.Set(ctx, "old", []byte(`{"version":"1.0.0","attempts":4}`), store.WithNamespace("Settings")))

	recs := store.NewRecords(s, v2)
	inst, err := recs.Load(ctx, "old")
	require.NoError(t, err)
	require.Equal(t, 4, inst.MustGet("retries"))

	require.NoError(t, s.Set(ctx, "bad", []byte(`{"version":"2.0.0","retries":"many"}`), store.WithNamespace("Settings")))
	_, err = recs.Load(ctx, "bad")
	require.True(t, errors.Is(err, typed.ErrType))
}
