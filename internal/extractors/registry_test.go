package extractors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bizrag/internal/core/domain"
)

type stubExtractor struct {
	exts []string
	text string
}

func (s *stubExtractor) SupportedExtensions() []string { return s.exts }

func (s *stubExtractor) Extract(_ context.Context, _ string) (string, error) {
	return s.text, nil
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	for _, ext := range []string{".pdf", ".txt", ".csv", ".md", ".html", ".docx"} {
		t.Run(ext, func(t *testing.T) {
			e, err := r.Get(ext)
			require.NoError(t, err)
			assert.Contains(t, e.SupportedExtensions(), ext)
		})
	}
}

func TestRegistry_GetNormalisesExtension(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{exts: []string{".PDF"}})

	for _, ext := range []string{".pdf", "pdf", ".Pdf", "PDF"} {
		_, err := r.Get(ext)
		assert.NoError(t, err, ext)
	}
}

func TestRegistry_Unsupported(t *testing.T) {
	r := DefaultRegistry()

	_, err := r.Get(".exe")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	_, err = r.Get("")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestRegistry_LaterRegistrationWins(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{exts: []string{".txt"}, text: "first"})
	r.Register(&stubExtractor{exts: []string{".txt"}, text: "second"})

	e, err := r.Get(".txt")
	require.NoError(t, err)
	text, _ := e.Extract(context.Background(), "x.txt")
	assert.Equal(t, "second", text)
}

func TestRegistry_Supports(t *testing.T) {
	r := DefaultRegistry()

	assert.True(t, r.Supports("/docs/report.PDF"))
	assert.True(t, r.Supports("notes.md"))
	assert.False(t, r.Supports("archive.zip"))
	assert.False(t, r.Supports("Makefile"))
}

func TestRegistry_Extensions(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{exts: []string{".b", ".a"}})

	assert.Equal(t, []string{".a", ".b"}, r.Extensions())
}
