package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/mock"

	"github.com/custodia-labs/bizrag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/bizrag/internal/core/domain"
)

type mockRAGService struct {
	mock.Mock
}

func (m *mockRAGService) ProcessDocuments(
	ctx context.Context, tenant domain.TenantID, paths []string,
) (*domain.IngestReport, error) {
	args := m.Called(ctx, tenant, paths)
	report, _ := args.Get(0).(*domain.IngestReport)
	return report, args.Error(1)
}

func (m *mockRAGService) Query(ctx context.Context, tenant domain.TenantID, query string, topK int) ([]string, error) {
	args := m.Called(ctx, tenant, query, topK)
	results, _ := args.Get(0).([]string)
	return results, args.Error(1)
}

func (m *mockRAGService) Stats() []domain.TenantStats {
	return nil
}

type mockInsightService struct {
	mock.Mock
}

func (m *mockInsightService) Insights(ctx context.Context, tenant domain.TenantID, query string) (*domain.Insight, error) {
	args := m.Called(ctx, tenant, query)
	insight, _ := args.Get(0).(*domain.Insight)
	return insight, args.Error(1)
}

type mockValidator struct {
	embeddingErr  error
	generationErr error
}

func (m *mockValidator) ValidateEmbedding(context.Context, domain.EmbeddingSettings) error {
	return m.embeddingErr
}

func (m *mockValidator) ValidateGeneration(context.Context, domain.GenerationSettings) error {
	return m.generationErr
}

type testServices struct {
	rag       *mockRAGService
	insights  *mockInsightService
	config    *memory.ConfigStore
	validator *mockValidator
}

// setupTestServices installs mocks and returns a cleanup that restores the
// previous services and resets every flag.
func setupTestServices() (*testServices, func()) {
	oldRAG, oldInsights, oldConfig, oldValidator := ragService, insightService, configStore, validator
	oldFilter, oldSettings, oldWired := fileFilter, appSettings, wired

	ts := &testServices{
		rag:       &mockRAGService{},
		insights:  &mockInsightService{},
		config:    memory.NewConfigStore(),
		validator: &mockValidator{},
	}
	SetServices(&Services{
		RAG:       ts.rag,
		Insights:  ts.insights,
		Config:    ts.config,
		Validator: ts.validator,
		Settings:  domain.DefaultSettings(),
	})

	return ts, func() {
		ragService, insightService, configStore, validator = oldRAG, oldInsights, oldConfig, oldValidator
		fileFilter, appSettings, wired = oldFilter, oldSettings, oldWired
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetErr(nil)
	}
}

// resetFlags restores defaults on cmd and all subcommands. Slice flags
// are emptied because pflag appends once a slice flag has been set.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace([]string{})
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
