// Package sheets defines the outbound report-sheet ports.
package sheets

import (
	"context"

	"github.com/srikolla28/trackfina/internal/core"
)

type (
	// RowAppender mirrors a purchase record into an external report sheet.
	RowAppender interface {
		AppendPurchase(ctx context.Context, p core.Purchase) (rowRef string, err error)
	}

	// RowDeleter removes a previously mirrored record by its ledger id.
	RowDeleter interface {
		DeletePurchase(ctx context.Context, id string) error
	}
)
