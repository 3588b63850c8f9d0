// Package memory is an in-process report sheet used for tests and local runs
// without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/srikolla28/trackfina/internal/core"
)

type Sheet struct {
	mu   sync.Mutex
	rows []core.Purchase
}

func New() *Sheet {
	return &Sheet{}
}

// AppendPurchase stores the record and returns a synthetic row reference.
func (s *Sheet) AppendPurchase(_ context.Context, p core.Purchase) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, p)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// DeletePurchase removes rows matching the ledger id. Unknown ids are a no-op.
func (s *Sheet) DeletePurchase(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.rows[:0]
	for _, row := range s.rows {
		if row.ID != id {
			kept = append(kept, row)
		}
	}
	s.rows = kept
	return nil
}

// Rows returns a copy of the mirrored records.
func (s *Sheet) Rows() []core.Purchase {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Purchase, len(s.rows))
	copy(out, s.rows)
	return out
}
