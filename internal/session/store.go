// Package session provides the per-identity conversation state store injected
// into the conversation engine. Entries are time-boxed rather than kept for
// the life of the process.
package session

import (
	"context"

	"raglobal-chat/internal/model"
)

// Store maps caller identities to their conversation state. Get returns
// (nil, nil) for an unknown identity; the engine creates the state on first
// contact.
type Store interface {
	Get(ctx context.Context, id string) (*model.SessionState, error)
	Put(ctx context.Context, state *model.SessionState) error
	Delete(ctx context.Context, id string) error
}
