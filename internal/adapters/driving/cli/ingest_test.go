package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/bizrag/internal/core/domain"
)

func TestPrintReport(t *testing.T) {
	tests := []struct {
		name    string
		report  *domain.IngestReport
		want    []string
		notWant []string
	}{
		{
			name: "all ingested",
			report: &domain.IngestReport{
				Tenant:   "acme",
				Ingested: []domain.DocumentResult{{Path: "a.pdf", Chunks: 2}, {Path: "b.md", Chunks: 1}},
			},
			want:    []string{"Ingested 2 of 2 documents (3 chunks) into acme"},
			notWant: []string{"Failed"},
		},
		{
			name: "failures and skipped",
			report: &domain.IngestReport{
				Tenant:   "acme",
				Failures: []domain.DocumentFailure{{Path: "c.pdf", Kind: domain.FailureUpstreamTimeout, Message: "deadline"}},
				Skipped:  []string{"blank.txt"},
			},
			want: []string{
				"Ingested 0 of 2 documents (0 chunks) into acme",
				"Failed (1):\n  ! c.pdf: upstream_timeout: deadline",
				"  - blank.txt: no usable text",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			printReport(buf, tt.report)

			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, buf.String(), w)
			}
		})
	}
}
