package markdown

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bizrag/internal/core/domain"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"heading", "# Quarterly Review", "Quarterly Review"},
		{"emphasis", "Sales were **very** strong and *steady*", "Sales were very strong and steady"},
		{"link", "See [the dashboard](https://example.com)", "See the dashboard"},
		{"image", "![chart](chart.png)Growth", "Growth"},
		{"inline code", "Run `make` now", "Run  now"},
		{"code block", "before\n```\ncode\n```\nafter", "before\n\nafter"},
		{"bullet list", "- first\n* second", "first\nsecond"},
		{"numbered list", "1. one\n2. two", "one\ntwo"},
		{"blockquote", "> quoted", "quoted"},
		{"rule", "above\n---\nbelow", "above\n\nbelow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Strip(tt.input))
		})
	}
}

func TestExtractor_Extract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.md")
	require.NoError(t, os.WriteFile(path, []byte("# Plan\n\nGrow **margin** by 5%."), 0o600))

	text, err := New().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Plan\n\nGrow margin by 5%.", text)
}

func TestExtractor_Missing(t *testing.T) {
	_, err := New().Extract(context.Background(), "/nonexistent/plan.md")
	assert.ErrorIs(t, err, domain.ErrExtraction)
}
