// Package guard holds the access-control policy and the single-entry
// reentrancy guard that wraps every flow invoking the external value mover.
package guard

import (
	"context"
	"sync"

	"givepact/pkg/domain"
	dErrors "givepact/pkg/domain-errors"
)

// ErrReentrantCall is returned when a caller re-enters a guarded operation
// while a previous invocation is still in flight. Reentrancy can only happen
// through the external transfer call, so failing fast here is what keeps
// ledger counters and credential totals single-writer.
var ErrReentrantCall = dErrors.New(dErrors.CodeConflict, "reentrant call")

// ReentrancyGuard enforces single entry per caller across all guarded
// operations. While one invocation for a caller is in progress, any nested
// entry for the same caller fails immediately with ErrReentrantCall.
type ReentrancyGuard struct {
	mu       sync.Mutex
	inFlight map[domain.Address]struct{}
}

func NewReentrancyGuard() *ReentrancyGuard {
	return &ReentrancyGuard{inFlight: make(map[domain.Address]struct{})}
}

// Do runs fn under the guard for the given caller. The guard is released when
// fn returns, whether or not it succeeded.
func (g *ReentrancyGuard) Do(ctx context.Context, caller domain.Address, fn func(ctx context.Context) error) error {
	if err := g.enter(caller); err != nil {
		return err
	}
	defer g.exit(caller)
	return fn(ctx)
}

func (g *ReentrancyGuard) enter(caller domain.Address) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[caller]; busy {
		return ErrReentrantCall
	}
	g.inFlight[caller] = struct{}{}
	return nil
}

func (g *ReentrancyGuard) exit(caller domain.Address) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, caller)
}
