// Package rules implements the ordered validation chains shared by the account,
// transaction and transfer flows. A chain is a list of (predicate, reason)
// pairs evaluated in order; the first predicate that holds aborts the whole
// operation with a validation error carrying its reason. Chains are pure
// decision functions with no side effects.
package rules

import (
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/apperrors"
)

// Rule pairs a failure predicate with the reason reported when it fires.
type Rule[T any] struct {
	Broken func(T) bool
	Reason string
}

// Check evaluates the rules in order against the subject and returns a
// validation error with the first broken rule's reason, or nil when every
// predicate is false.
func Check[T any](subject T, chain []Rule[T]) error {
	for _, rule := range chain {
		if rule.Broken(subject) {
			return apperrors.NewValidation(rule.Reason)
		}
	}
	return nil
}
