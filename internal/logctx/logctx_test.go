package logctx

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestHandlerAddsContextGroups(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(Handler{slog.NewTextHandler(&buf, nil)}).With("component", "test")

	ctx := WithRecordData(context.Background(), &RecordData{Type: "Point", ID: "abc", Version: "1.0.0"})
	ctx = WithCommandData(ctx, &CommandData{Name: "store put"})
	log.InfoContext(ctx, "hello")

	out := buf.String()
	for _, want := range []string{"component=test", "rec.type=Point", "rec.id=abc", "rec.version=1.0.0", `cmd.name="store put"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestHandlerWithoutContext(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(Handler{slog.NewTextHandler(&buf, nil)})
	log.Info("plain")
	if strings.Contains(buf.String(), "rec.") || strings.Contains(buf.String(), "cmd.") {
		t.Fatalf("unexpected context attrs: %q", buf.String())
	}
}
