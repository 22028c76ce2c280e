package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ggoodman/strongtyping-go/internal/logctx"
	"github.com/ggoodman/strongtyping-go/typed"
)

// Records stores instances of one struct type. Documents are the instances'
// JSON form, so versioned types are migrated on Load.
type Records struct {
	storage Storage
	typ     *typed.Type
	ns      string
	ttl     time.Duration
	log     *slog.Logger
}

// RecordsOption configures Records.
type RecordsOption func(*Records)

// WithRecordTTL expires every record written through Records after ttl.
func WithRecordTTL(ttl time.Duration) RecordsOption {
	return func(r *Records) { r.ttl = ttl }
}

// WithRecordNamespace overrides the namespace, which defaults to the type
// name.
func WithRecordNamespace(ns string) RecordsOption {
	return func(r *Records) { r.ns = ns }
}

// WithLogger sets the logger used for record operations.
func WithLogger(l *slog.Logger) RecordsOption {
	return func(r *Records) { r.log = l }
}

// NewRecords binds t to s.
func NewRecords(s Storage, t *typed.Type, opts ...RecordsOption) *Records {
	r := &Records{storage: s, typ: t, ns: t.Name(), log: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Records) ctx(ctx context.Context, id string) context.Context {
	rd := &logctx.RecordData{Type: r.typ.Name(), ID: id}
	if v := r.typ.Version(); v != nil {
		rd.Version = v.String()
	}
	return logctx.WithRecordData(ctx, rd)
}

// Save stores inst under a new random id and returns the id.
func (r *Records) Save(ctx context.Context, inst *typed.Instance) (string, error) {
	id := uuid.NewString()
	if err := r.Put(ctx, id, inst); err != nil {
		return "", err
	}
	return id, nil
}

// Put stores inst under id, replacing any previous record.
func (r *Records) Put(ctx context.Context, id string, inst *typed.Instance) error {
	if inst.Type() != r.typ {
		return fmt.Errorf("store: %s record cannot hold a %s instance", r.typ.Name(), inst.Type().Name())
	}
	ctx = r.ctx(ctx, id)
	data, err := json.Marshal(inst)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", id, err)
	}
	opts := []Option{WithNamespace(r.ns)}
	if r.ttl > 0 {
		opts = append(opts, WithTTL(r.ttl))
	}
	if err := r.storage.Set(ctx, id, data, opts...); err != nil {
		return err
	}
	r.log.DebugContext(ctx, "record stored", slog.Int("bytes", len(data)))
	return nil
}

// Load reads and rebuilds the record stored under id.
func (r *Records) Load(ctx context.Context, id string) (*typed.Instance, error) {
	ctx = r.ctx(ctx, id)
	item, err := r.storage.Get(ctx, id, WithNamespace(r.ns))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, r.ns, id)
	}
	inst, err := r.typ.Unmarshal(item.Data)
	if err != nil {
		r.log.WarnContext(ctx, "record could not be decoded", slog.Any("err", err))
		return nil, err
	}
	return inst, nil
}

// Delete removes the record stored under id. Missing records are not an
// error.
func (r *Records) Delete(ctx context.Context, id string) error {
	ctx = r.ctx(ctx, id)
	if err := r.storage.Delete(ctx, WithNamespace(r.ns), WithKey(id)); err != nil {
		return err
	}
	r.log.DebugContext(ctx, "record deleted")
	return nil
}

// IDs lists the stored record ids.
func (r *Records) IDs(ctx context.Context) ([]string, error) {
	return r.storage.Keys(ctx, WithNamespace(r.ns))
}
