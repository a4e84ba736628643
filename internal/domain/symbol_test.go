package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"Lowercase is uppercased", "aapl", "AAPL", false},
		{"Whitespace is trimmed", "  msft \n", "MSFT", false},
		{"Share class with dash", "brk-b", "BRK-B", false},
		{"Foreign listing with suffix", "ry.to", "RY.TO", false},
		{"Index", "^GSPC", "^GSPC", false},
		{"FX pair", "EURUSD=X", "EURUSD=X", false},
		{"Empty", "   ", "", true},
		{"Embedded space", "BRK B", "", true},
		{"Path injection", "../etc", "", true},
		{"Too long", "ABCDEFGHIJKLMNOPQRSTUVWXYZ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeSymbol(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				assert.ErrorIs(t, err, ErrValidation)
				assert.Equal(t, KindValidationError, KindOf(err))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUniqueSymbols(t *testing.T) {
	got := UniqueSymbols([]string{"MSFT", "AAPL", "MSFT", "NVDA", "AAPL"})
	assert.Equal(t, []string{"AAPL", "MSFT", "NVDA"}, got)

	assert.Empty(t, UniqueSymbols(nil))
}
