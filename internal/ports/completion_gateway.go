package ports

import (
	"context"

	"github.com/bhouston/chat-app/internal/domain"
)

// CompletionGateway turns an ordered message history into one generated
// reply. Each call is a complete, stateless round trip carrying the full
// visible history; only role and content go on the wire.
//
// Implementations must fail with a credential-missing error before any
// network attempt when no API key is configured, and must never retry on
// their own.
type CompletionGateway interface {
	Complete(ctx context.Context, messages []domain.Message) (string, error)

	// ValidateKey probes the gateway with the given credential and reports
	// whether it is accepted.
	ValidateKey(ctx context.Context, apiKey string) error
}
