package extractor

import (
	"context"
	"testing"

	"dealpipe/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestPDFExtractor_Extract(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{
			name: "empty document",
			data: nil,
		},
		{
			name: "garbage bytes",
			data: []byte("this is not a pdf"),
		},
		{
			name: "truncated header",
			data: []byte("%PDF-1.4"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewPDFExtractor(logger.NewNop())
			got := e.Extract(context.Background(), tt.data)
			assert.False(t, got.OK)
			assert.NotEmpty(t, got.Error)
			assert.Empty(t, got.Text)
		})
	}
}
