package ports

import (
	"context"

	"github.com/bnema/umi-memepool/internal/domain"
)

// SessionStore persists the last connected wallet address. Load returns
// domain.ErrNoSession when nothing is stored.
type SessionStore interface {
	Load(ctx context.Context) (domain.PersistedSession, error)
	Save(ctx context.Context, session domain.PersistedSession) error
	Clear(ctx context.Context) error
}
