// Package advisor suggests a category for an item name by asking an external
// text-classification service. Suggestions are advisory only: any failure,
// timeout or unrecognized answer degrades to "no suggestion" and never blocks
// record mutation or query evaluation.
package advisor

import (
	"context"
	"errors"

	"github.com/srikolla28/trackfina/internal/core"
)

// ErrNoSuggestion means the service had nothing useful to say. Callers treat
// it the same as any transport error: no suggestion available.
var ErrNoSuggestion = errors.New("no suggestion available")

// Suggester is the advisory collaborator port.
type Suggester interface {
	SuggestCategory(ctx context.Context, itemName string) (core.Category, error)
}
