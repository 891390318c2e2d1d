package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTenantID(t *testing.T) {
	assert.True(t, TenantID("").IsZero())
	assert.False(t, TenantID("t1").IsZero())
	assert.Equal(t, "t1", TenantID("t1").String())
}

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"timeout", fmt.Errorf("embed chunk 3: %w", ErrUpstreamTimeout), FailureUpstreamTimeout},
		{"rate limited", fmt.Errorf("embed: %w", ErrRateLimited), FailureRateLimited},
		{"upstream", fmt.Errorf("embed: %w", ErrUpstream), FailureUpstream},
		{"extraction", fmt.Errorf("open: %w", ErrExtraction), FailureExtraction},
		{"unsupported", ErrUnsupportedType, FailureExtraction},
		{"invalid input", ErrInvalidInput, FailureInvalidInput},
		{"unknown", errors.New("boom"), FailureUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyFailure(tt.err))
		})
	}
}

func TestIngestReport_Totals(t *testing.T) {
	report := &IngestReport{
		Ingested: []DocumentResult{
			{Path: "a.pdf", Chunks: 3},
			{Path: "b.txt", Chunks: 4},
		},
	}

	assert.Equal(t, 7, report.TotalChunks())
	assert.False(t, report.HasFailures())

	report.Failures = append(report.Failures, DocumentFailure{Path: "c.pdf", Kind: FailureExtraction})
	assert.True(t, report.HasFailures())

	report.Skipped = append(report.Skipped, "blank.txt")
	assert.Equal(t, 4, report.DocumentsProcessed())
}
