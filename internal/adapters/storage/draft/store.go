package draft

import (
	"context"
	"time"

	domain "portal/internal/domain/draft"
)

// Store persists wizard drafts. Load treats expired or unreadable rows as
// absent and deletes them; it never surfaces them as errors to the caller.
type Store interface {
	Load(ctx context.Context, key domain.Key, now time.Time) (domain.Draft, bool, error)
	Save(ctx context.Context, d domain.Draft) error
	Clear(ctx context.Context, key domain.Key) error
}
