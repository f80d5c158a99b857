package repositories

import (
	"context"
	"errors"
	"sort"
)

// ErrTargetNotFound is returned when a reactable reference does not resolve
// to an existing object, or names a kind no resolver was registered for.
var ErrTargetNotFound = errors.New("target not found")

// TargetResolver checks that an object of some kind exists. It returns
// ErrTargetNotFound when it does not; any other error is a storage failure.
type TargetResolver func(ctx context.Context, id string) error

// TargetRegistry maps reactable kinds to their resolvers. A resource type
// becomes likeable by registering a resolver for its kind, nothing more.
type TargetRegistry struct {
	resolvers map[string]TargetResolver
}

// NewTargetRegistry creates an empty TargetRegistry
func NewTargetRegistry() *TargetRegistry {
	return &TargetRegistry{resolvers: make(map[string]TargetResolver)}
}

// Register adds a resolver for a kind, replacing any previous one.
// Kinds are wired once at startup; Register is not safe to call concurrently
// with Resolve.
func (r *TargetRegistry) Register(kind string, resolve TargetResolver) {
	r.resolvers[kind] = resolve
}

// Resolve validates that the (kind, id) reference points at an existing
// object. Unknown kinds resolve to ErrTargetNotFound, same as missing ids.
func (r *TargetRegistry) Resolve(ctx context.Context, kind, id string) error {
	resolve, ok := r.resolvers[kind]
	if !ok {
		return ErrTargetNotFound
	}
	return resolve(ctx, id)
}

// Kinds returns the registered kinds in sorted order
func (r *TargetRegistry) Kinds() []string {
	kinds := make([]string, 0, len(r.resolvers))
	for kind := range r.resolvers {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
