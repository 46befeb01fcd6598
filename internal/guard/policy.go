package guard

import (
	"context"

	"givepact/pkg/domain"
	dErrors "givepact/pkg/domain-errors"
)

// ErrNotAuthorized is returned when a caller attempts a privileged operation
// (charity verification, token whitelisting, emergency withdrawal) without
// holding the required role.
var ErrNotAuthorized = dErrors.New(dErrors.CodeForbidden, "caller is not authorized")

// Policy decides whether a caller may perform privileged operations. The
// implementation is chosen at construction time; services never hard-code a
// controlling identity.
type Policy interface {
	Authorize(ctx context.Context, caller domain.Address) error
}

// SingleOwner authorizes exactly one controlling identity.
type SingleOwner struct {
	owner domain.Address
}

func NewSingleOwner(owner domain.Address) *SingleOwner {
	return &SingleOwner{owner: owner}
}

func (p *SingleOwner) Authorize(_ context.Context, caller domain.Address) error {
	if caller.IsZero() || caller != p.owner {
		return ErrNotAuthorized
	}
	return nil
}

// Allowlist authorizes any member of a fixed set of administrator identities.
type Allowlist struct {
	members map[domain.Address]struct{}
}

func NewAllowlist(members ...domain.Address) *Allowlist {
	set := make(map[domain.Address]struct{}, len(members))
	for _, m := range members {
		if m.IsZero() {
			continue
		}
		set[m] = struct{}{}
	}
	return &Allowlist{members: set}
}

func (p *Allowlist) Authorize(_ context.Context, caller domain.Address) error {
	if caller.IsZero() {
		return ErrNotAuthorized
	}
	if _, ok := p.members[caller]; !ok {
		return ErrNotAuthorized
	}
	return nil
}
