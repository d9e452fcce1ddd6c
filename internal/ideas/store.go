package ideas

import "context"

// Store is the persistence boundary for strategy ideas. Implementations:
// in-memory (default for development), Postgres, and a Redis read-through
// cache layered over either.
type Store interface {
	Get(ctx context.Context, id string) (*Idea, error)
	List(ctx context.Context) ([]*Idea, error)
	Create(ctx context.Context, idea *Idea) error
	Update(ctx context.Context, idea *Idea) error
	Delete(ctx context.Context, id string) error
	Close() error
}
