package logctx

import (
	"context"
	"log/slog"
)

// Handler decorates records with the record and command data carried by the
// context.
type Handler struct {
	slog.Handler
}

func (h Handler) Handle(ctx context.Context, r slog.Record) error {
	if rd, ok := ctx.Value(recordDataKey{}).(*RecordData); ok {
		attrs := []any{
			slog.String("type", rd.Type),
			slog.String("id", rd.ID),
		}
		if rd.Version != "" {
			attrs = append(attrs, slog.String("version", rd.Version))
		}
		r.AddAttrs(slog.Group("rec", attrs...))
	}

	if cd, ok := ctx.Value(commandDataKey{}).(*CommandData); ok {
		r.AddAttrs(slog.Group("cmd",
			slog.String("name", cd.Name),
		))
	}

	return h.Handler.Handle(ctx, r)
}

func (h Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return Handler{h.Handler.WithAttrs(attrs)}
}

func (h Handler) WithGroup(name string) slog.Handler {
	return Handler{h.Handler.WithGroup(name)}
}

type recordDataKey struct{}

// RecordData identifies the stored record an operation works on.
type RecordData struct {
	Type    string
	ID      string
	Version string
}

func WithRecordData(ctx context.Context, data *RecordData) context.Context {
	return context.WithValue(ctx, recordDataKey{}, data)
}

type commandDataKey struct{}

// CommandData names the CLI command being run.
type CommandData struct {
	Name string
}

func WithCommandData(ctx context.Context, data *CommandData) context.Context {
	return context.WithValue(ctx, commandDataKey{}, data)
}
