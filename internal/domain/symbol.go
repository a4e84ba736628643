package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// symbolPattern accepts exchange tickers (BRK-B, RY.TO), indices (^GSPC) and FX pairs (EURUSD=X).
var symbolPattern = regexp.MustCompile(`^[A-Z0-9^][A-Z0-9.\-=^]{0,19}$`)

// NormalizeSymbol trims and uppercases a raw ticker and validates its shape.
func NormalizeSymbol(raw string) (string, error) {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	if symbol == "" {
		return "", fmt.Errorf("symbol is required: %w", ErrValidation)
	}
	if !symbolPattern.MatchString(symbol) {
		return "", fmt.Errorf("invalid symbol %q: %w", raw, ErrValidation)
	}
	return symbol, nil
}

// UniqueSymbols returns the sorted set of symbols, dropping duplicates.
// Input is expected to be normalized already.
func UniqueSymbols(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
