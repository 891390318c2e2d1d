package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bizrag/internal/core/domain"
)

// fakeRAG returns canned retrieval results.
type fakeRAG struct {
	chunks    []string
	err       error
	lastQuery string
	lastTopK  int
}

func (f *fakeRAG) ProcessDocuments(_ context.Context, _ domain.TenantID, _ []string) (*domain.IngestReport, error) {
	return &domain.IngestReport{}, nil
}

func (f *fakeRAG) Query(_ context.Context, _ domain.TenantID, query string, topK int) ([]string, error) {
	f.lastQuery = query
	f.lastTopK = topK
	return f.chunks, f.err
}

func (f *fakeRAG) Stats() []domain.TenantStats { return nil }

// mockGenerator implements driven.Generator with testify/mock.
type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *mockGenerator) ModelName() string { return "mock-model" }
func (m *mockGenerator) Close() error      { return nil }

// stubPrompts serves a fixed template.
type stubPrompts struct {
	template string
	err      error
}

func (s *stubPrompts) Load(_ string) (string, error) { return s.template, s.err }
func (s *stubPrompts) Reload()                       {}

func fixedHeadline(i int) HeadlinePicker {
	return func(int) int { return i }
}

var businessChunks = []string{
	"Inventory cost fell 10 percent while warehouse automation improved efficiency.",
	"Sales revenue rose 20 percent across 300 stores as customer demand grew.",
}

func TestAnalyzeContext(t *testing.T) {
	analysis := AnalyzeContext(businessChunks)

	assert.True(t, analysis.HasInventory)
	assert.True(t, analysis.HasSales)
	assert.True(t, analysis.HasOperations)
	assert.True(t, analysis.HasFinance)
	assert.False(t, analysis.HasStrategy)
	assert.Equal(t, 2, analysis.DocumentCount)
}

func TestAnalyzeContext_WordBoundaries(t *testing.T) {
	analysis := AnalyzeContext([]string{"Restocking the planetarium"})

	assert.False(t, analysis.HasInventory)
	assert.False(t, analysis.HasStrategy)
}

func TestExtractKeyInsights(t *testing.T) {
	insights := ExtractKeyInsights(businessChunks)
	require.Len(t, insights, 2)

	assert.Equal(t, domain.KeyInsightMetric, insights[0].Type)
	assert.Equal(t, "15.0%", insights[0].Value)
	assert.Equal(t, "average improvement potential identified", insights[0].Context)

	assert.Equal(t, domain.KeyInsightAreas, insights[1].Type)
	assert.Equal(t, []string{areaInventory, areaSales, areaCost}, insights[1].Areas)
}

func TestExtractKeyInsights_Edges(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
		metric string
	}{
		{"decimals", []string{"turnover 12.5 and 7.5"}, "10.0%"},
		{"zero excluded", []string{"0 and 50"}, "50.0%"},
		{"hundred included", []string{"100 101"}, "100.0%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insights := ExtractKeyInsights(tt.chunks)
			require.NotEmpty(t, insights)
			assert.Equal(t, tt.metric, insights[0].Value)
		})
	}

	assert.Empty(t, ExtractKeyInsights([]string{"nothing measurable here"}))
	assert.Empty(t, ExtractKeyInsights(nil))
}

func TestRecommendations(t *testing.T) {
	all := Recommendations(domain.ContextAnalysis{HasInventory: true, HasSales: true, HasOperations: true})
	require.Len(t, all, 3)
	assert.Equal(t, "Smart Inventory Optimization", all[0].Title)
	assert.Equal(t, "Revenue Acceleration Program", all[1].Title)
	assert.Equal(t, "Operational Excellence Initiative", all[2].Title)

	salesOnly := Recommendations(domain.ContextAnalysis{HasSales: true, HasFinance: true})
	require.Len(t, salesOnly, 1)
	assert.Equal(t, "Revenue Acceleration Program", salesOnly[0].Title)

	defaults := Recommendations(domain.ContextAnalysis{})
	require.Len(t, defaults, 2)
	assert.Equal(t, "Digital Transformation Foundation", defaults[0].Title)
	assert.Equal(t, "Supply Chain Resilience Program", defaults[1].Title)
}

func TestSalesSuggestions(t *testing.T) {
	targeted := SalesSuggestions([]string{"Demand spiked in spring"})
	require.Len(t, targeted, 2)
	assert.Equal(t, "Revenue Optimization", targeted[0].Title)
	assert.Equal(t, "marketing", targeted[1].Type)

	defaults := SalesSuggestions(nil)
	require.Len(t, defaults, 4)
	assert.Equal(t, []string{"sales", "marketing", "customer", "pricing"},
		[]string{defaults[0].Type, defaults[1].Type, defaults[2].Type, defaults[3].Type})
}

func TestInsightService_WithContext(t *testing.T) {
	rag := &fakeRAG{chunks: businessChunks}
	svc := NewInsightService(rag, WithHeadlinePicker(fixedHeadline(2)))

	insight, err := svc.Insights(context.Background(), "acme", "How is inventory doing?")
	require.NoError(t, err)

	assert.Equal(t, "How is inventory doing?", insight.Query)
	assert.Equal(t, insightTopK, rag.lastTopK)
	assert.Equal(t, businessChunks, insight.Sources)
	assert.False(t, insight.Fallback)
	assert.False(t, insight.Generated)
	assert.Len(t, insight.SalesSuggestions, 2)

	report := insight.Response
	assert.True(t, strings.HasPrefix(report, "# EFFICIENCY REVOLUTION\n\n"))
	assert.Contains(t, report, "**Analysis of 2 business documents reveals:**")
	assert.Contains(t, report, "📊 **15.0%** average improvement potential identified")
	assert.Contains(t, report, "🎯 **Focus Areas:** Inventory Management, Sales Optimization, Cost Reduction")
	assert.Contains(t, report, "### 1. Smart Inventory Optimization\nImpact: High (20-35% cost reduction) | Effort: Medium | Timeline: 30-60 days")
	assert.Contains(t, report, "### 3. Operational Excellence Initiative")
	assert.NotContains(t, report, "### 4.")
	assert.True(t, strings.HasSuffix(report, "Big results tomorrow! 🚀"))
}

func TestInsightService_DefaultQuery(t *testing.T) {
	rag := &fakeRAG{chunks: businessChunks}
	svc := NewInsightService(rag)

	insight, err := svc.Insights(context.Background(), "acme", "   ")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultInsightQuery, rag.lastQuery)
	assert.Equal(t, domain.DefaultInsightQuery, insight.Query)
}

func TestInsightService_GeneralInsights(t *testing.T) {
	tests := []struct {
		name string
		rag  *fakeRAG
	}{
		{"no context", &fakeRAG{chunks: []string{}}},
		{"retrieval failure", &fakeRAG{err: fmt.Errorf("embed query: %w", domain.ErrUpstream)}},
		{"upstream timeout", &fakeRAG{err: domain.ErrUpstreamTimeout}},
		{"embedding unavailable", &fakeRAG{err: domain.ErrEmbeddingUnavailable}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewInsightService(tt.rag, WithHeadlinePicker(fixedHeadline(0)))

			insight, err := svc.Insights(context.Background(), "acme", "summary")
			require.NoError(t, err)

			assert.True(t, insight.Fallback)
			assert.NotNil(t, insight.Sources)
			assert.Empty(t, insight.Sources)
			assert.Len(t, insight.SalesSuggestions, 4)
			assert.True(t, strings.HasPrefix(insight.Response, "# BREAKTHROUGH DISCOVERY"))
			assert.Contains(t, insight.Response, "**Data-Driven Supply Chain Intelligence:**")
			assert.Contains(t, insight.Response, "📊 **25%** average improvement potential across key metrics")
			assert.Contains(t, insight.Response,
				"🎯 **Focus Areas:** Inventory Management, Sales Optimization, Supply Chain, Cost Reduction")
			assert.Contains(t, insight.Response, "### 3. Operational Excellence Initiative")
		})
	}
}

func TestInsightService_Cancelled(t *testing.T) {
	svc := NewInsightService(&fakeRAG{err: context.Canceled})

	insight, err := svc.Insights(context.Background(), "acme", "summary")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, insight)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewInsightService(&fakeRAG{err: errors.New("aborted")}).Insights(ctx, "acme", "summary")
	assert.Error(t, err)
}

func TestInsightService_Generator(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "Request: margins?") &&
			strings.Contains(prompt, "[1] "+businessChunks[0]) &&
			strings.Contains(prompt, "[2] "+businessChunks[1])
	})).Return("## Generated report", nil).Once()

	svc := NewInsightService(&fakeRAG{chunks: businessChunks}, WithGenerator(gen))

	insight, err := svc.Insights(context.Background(), "acme", "margins?")
	require.NoError(t, err)
	assert.Equal(t, "## Generated report", insight.Response)
	assert.True(t, insight.Generated)
	assert.Equal(t, businessChunks, insight.Sources)
	gen.AssertExpectations(t)
}

func TestInsightService_GeneratorUsesPromptStore(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, "Q=margins? E=[1] only chunk").Return("custom", nil).Once()

	svc := NewInsightService(&fakeRAG{chunks: []string{"only chunk"}}, WithGenerator(gen))
	svc.SetPromptStore(&stubPrompts{template: "Q=%s E=%s"})

	insight, err := svc.Insights(context.Background(), "acme", "margins?")
	require.NoError(t, err)
	assert.Equal(t, "custom", insight.Response)
	gen.AssertExpectations(t)
}

func TestInsightService_GeneratorFailureFallsBackToTemplate(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
	}{
		{"error", "", fmt.Errorf("gemini: %w", domain.ErrUpstream)},
		{"blank body", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &mockGenerator{}
			gen.On("Generate", mock.Anything, mock.Anything).Return(tt.body, tt.err)

			svc := NewInsightService(&fakeRAG{chunks: businessChunks},
				WithGenerator(gen), WithHeadlinePicker(fixedHeadline(4)))
			svc.SetPromptStore(&stubPrompts{err: errors.New("missing")})

			insight, err := svc.Insights(context.Background(), "acme", "margins?")
			require.NoError(t, err)
			assert.False(t, insight.Generated)
			assert.False(t, insight.Fallback)
			assert.True(t, strings.HasPrefix(insight.Response, "# GROWTH ACCELERATOR"))
		})
	}
}

func TestInsightService_HeadlinePickerOutOfRange(t *testing.T) {
	svc := NewInsightService(&fakeRAG{}, WithHeadlinePicker(fixedHeadline(99)))

	insight, err := svc.Insights(context.Background(), "acme", "x")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(insight.Response, "# "+Headlines[0]))
}

func TestInsightService_RandomHeadline(t *testing.T) {
	svc := NewInsightService(&fakeRAG{})

	insight, err := svc.Insights(context.Background(), "acme", "x")
	require.NoError(t, err)

	first := strings.SplitN(insight.Response, "\n", 2)[0]
	assert.Contains(t, Headlines, strings.TrimPrefix(first, "# "))
}
