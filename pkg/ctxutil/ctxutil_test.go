package ctxutil

import (
	"context"
	"testing"
)

func TestWithAccountID_And_AccountIDFromCtx(t *testing.T) {
	t.Parallel()

	ctx := WithAccountID(context.Background(), "acct-7")

	got, ok := AccountIDFromCtx(ctx)
	if !ok {
		t.Fatal("expected ok=true for stored account ID")
	}
	if got != "acct-7" {
		t.Errorf("got %q, want %q", got, "acct-7")
	}
}

func TestAccountIDFromCtx_Missing(t *testing.T) {
	t.Parallel()

	if _, ok := AccountIDFromCtx(context.Background()); ok {
		t.Error("expected ok=false for empty context")
	}
}

func TestAccountIDFromCtx_Empty(t *testing.T) {
	t.Parallel()

	ctx := WithAccountID(context.Background(), "")
	if _, ok := AccountIDFromCtx(ctx); ok {
		t.Error("expected ok=false for empty account ID")
	}
}

func TestWithRequestID_And_RequestIDFromCtx(t *testing.T) {
	t.Parallel()

	ctx := WithRequestID(context.Background(), "req-123")
	if got := RequestIDFromCtx(ctx); got != "req-123" {
		t.Errorf("got %q, want %q", got, "req-123")
	}
}

func TestRequestIDFromCtx_Missing(t *testing.T) {
	t.Parallel()

	if got := RequestIDFromCtx(context.Background()); got != "" {
		t.Errorf("got %q, want empty string", got)
	}
}
