package cart

import (
	"context"

	"easyorder-core/internal/domain"
)

// Store persists a session's cart so it survives reloads. The assembler treats
// it as an injected capability; it never reaches for ambient storage itself.
type Store interface {
	Load(ctx context.Context, sessionID string) (domain.Cart, error)
	Save(ctx context.Context, cart domain.Cart) error
	Clear(ctx context.Context, sessionID string) error
}
