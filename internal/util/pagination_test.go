package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name               string
		page, size         int
		wantOffset, wantLm int
	}{
		{name: "first page", page: 1, size: 10, wantOffset: 0, wantLm: 10},
		{name: "third page", page: 3, size: 10, wantOffset: 20, wantLm: 10},
		{name: "page below one", page: 0, size: 5, wantOffset: 0, wantLm: 5},
		{name: "size too large", page: 2, size: 1000, wantOffset: DefaultPageSize, wantLm: DefaultPageSize},
		{name: "size zero", page: 1, size: 0, wantOffset: 0, wantLm: DefaultPageSize},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			offset, limit := Calculate(tt.page, tt.size)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantLm, limit)
		})
	}
}

func TestParseIntDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 7, ParseIntDefault("", 7))
	assert.Equal(t, 7, ParseIntDefault("abc", 7))
	assert.Equal(t, 3, ParseIntDefault("3", 7))
}
