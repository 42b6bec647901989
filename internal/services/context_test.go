package services_test

import (
	"context"
	"testing"

	"teludub/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id on empty context")
	}
	ctx = services.WithRunID(ctx, "run-1")
	ctx = services.WithStage(ctx, "translate")
	ctx = services.WithChunk(ctx, 3)

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-1" {
		t.Fatalf("unexpected run id %q (ok=%v)", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "translate" {
		t.Fatalf("unexpected stage %q (ok=%v)", stage, ok)
	}
	if seq, ok := services.ChunkFromContext(ctx); !ok || seq != 3 {
		t.Fatalf("unexpected chunk %d (ok=%v)", seq, ok)
	}
}

func TestWithStageIgnoresEmpty(t *testing.T) {
	ctx := services.WithStage(context.Background(), "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected empty stage to be ignored")
	}
}
