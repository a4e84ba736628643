package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure for callers and for the per-symbol batch report.
type ErrorKind string

const (
	KindNotFound         ErrorKind = "NotFound"
	KindRateLimited      ErrorKind = "RateLimited"
	KindProviderError    ErrorKind = "ProviderError"
	KindStoreUnavailable ErrorKind = "StoreUnavailable"
	KindValidationError  ErrorKind = "ValidationError"
)

var (
	// ErrSymbolNotFound means the quote provider does not know the symbol.
	ErrSymbolNotFound = errors.New("symbol not found")
	// ErrRateLimited means the quote provider asked us to back off.
	ErrRateLimited = errors.New("rate limited by quote provider")
	// ErrProvider is a transient upstream fault of the quote provider.
	ErrProvider = errors.New("quote provider error")
	// ErrStoreUnavailable means the persistence layer could not serve the request.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrValidation marks malformed input.
	ErrValidation = errors.New("invalid input")
	// ErrRecordNotFound is returned by store lookups for symbols that have no record.
	ErrRecordNotFound = errors.New("stock record not found")
)

// KindOf maps an error chain to its ErrorKind.
// Unclassified errors, cancellations included, are reported as ProviderError.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return KindValidationError
	case errors.Is(err, ErrSymbolNotFound), errors.Is(err, ErrRecordNotFound):
		return KindNotFound
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, ErrStoreUnavailable):
		return KindStoreUnavailable
	default:
		return KindProviderError
	}
}

// Transient reports whether retrying the same call later may succeed.
func (k ErrorKind) Transient() bool {
	return k == KindRateLimited || k == KindProviderError
}

// StoreFailure marks err as a store outage unless it already carries a store sentinel.
func StoreFailure(err error) error {
	if err == nil || errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrRecordNotFound) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
