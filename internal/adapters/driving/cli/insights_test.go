package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bizrag/internal/core/domain"
)

func sampleInsight() *domain.Insight {
	return &domain.Insight{
		Query:    "inventory",
		Response: "# PROFIT MAXIMIZER\n\n## Critical Insights",
		Sources:  []string{"chunk"},
		SalesSuggestions: []domain.SalesSuggestion{
			{Title: "Bundle slow movers", Description: "Pair with best sellers", Impact: "Medium", Effort: "Low"},
		},
	}
}

func TestInsightsCmd_PrintsReport(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	ts.insights.On("Insights", mock.Anything, domain.TenantID("default"), "inventory levels").
		Return(sampleInsight(), nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"insights", "inventory", "levels"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "# PROFIT MAXIMIZER")
	assert.Contains(t, buf.String(), "Sales suggestions:")
	assert.Contains(t, buf.String(), "Bundle slow movers: Pair with best sellers (impact Medium, effort Low)")
	ts.insights.AssertExpectations(t)
}

func TestInsightsCmd_DefaultQueryIsEmpty(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	ts.insights.On("Insights", mock.Anything, domain.TenantID("default"), "").Return(sampleInsight(), nil)

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"insights"})

	require.NoError(t, rootCmd.Execute())
	ts.insights.AssertExpectations(t)
}

func TestInsightsCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	ts.insights.On("Insights", mock.Anything, mock.Anything, mock.Anything).Return(sampleInsight(), nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"insights", "--json"})

	require.NoError(t, rootCmd.Execute())

	var got domain.Insight
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "inventory", got.Query)
	assert.Len(t, got.SalesSuggestions, 1)
}

func TestInsightsCmd_ServiceNotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	insightService = nil

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"insights"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insight service not configured")
}
