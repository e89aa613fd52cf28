package ports

import (
	"context"

	"github.com/bhouston/chat-app/internal/domain"
)

// IdentityStore owns the signed-in identity. Identity transitions are atomic
// and notify every subscriber exactly once per transition, with nil meaning
// "no identity".
type IdentityStore interface {
	Current(ctx context.Context) (*domain.Identity, error)
	SignIn(ctx context.Context, identity domain.Identity) error
	SignOut(ctx context.Context) error
	Subscribe(fn func(*domain.Identity))
}
