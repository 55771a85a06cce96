package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinesFor(t *testing.T) {
	tests := []struct {
		length, width, want int
	}{
		{length: 0, width: 80, want: 2},
		{length: 80, width: 80, want: 2},
		{length: 81, width: 80, want: 3},
		{length: 100, width: 0, want: 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LinesFor(tt.length, tt.width))
	}
}
