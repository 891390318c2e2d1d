package tui

import "github.com/custodia-labs/bizrag/internal/core/domain"

// QueryCompleted carries retrieval results back to the model.
type QueryCompleted struct {
	Query   string
	Results []string
	Err     error
}

// InsightsCompleted carries an insight report back to the model.
type InsightsCompleted struct {
	Insight *domain.Insight
	Err     error
}
