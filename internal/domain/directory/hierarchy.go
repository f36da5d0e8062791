package directory

import (
	"context"
	"errors"

	"leavetrack/internal/domain/auth"
)

// chainDepth is how many approval levels the org hierarchy can supply.
const chainDepth = 3

// MaxApprovalDepth is the organizational ceiling on approval levels for a
// role, independent of any leave type's configuration.
func MaxApprovalDepth(role string) int {
	switch role {
	case auth.RoleEmployee:
		return 3
	case auth.RoleManager:
		return 2
	default:
		return 1
	}
}

// ResolveChain walks the manager relation upward from userID: the direct
// manager anchors level 1, the manager's manager level 2, and so on. A
// missing link at any hop terminates the chain there; only a missing or
// soft-deleted requester is an error.
func (s *Service) ResolveChain(ctx context.Context, userID string) (Chain, error) {
	user, err := s.Store.UserByID(ctx, userID)
	if err != nil {
		return Chain{}, err
	}

	var chain Chain
	ids := make([]string, 0, chainDepth)
	current := user.ManagerID
	for level := 0; level < chainDepth && current != ""; level++ {
		ids = append(ids, current)
		manager, err := s.Store.UserByID(ctx, current)
		if errors.Is(err, ErrNotFound) {
			break
		}
		if err != nil {
			return Chain{}, err
		}
		current = manager.ManagerID
	}

	if len(ids) > 0 {
		chain.ManagerID = ids[0]
	}
	if len(ids) > 1 {
		chain.Level2ApproverID = ids[1]
	}
	if len(ids) > 2 {
		chain.Level3ApproverID = ids[2]
	}
	return chain, nil
}

// wouldCycle walks upward from candidate manager; reaching userID means
// the reassignment would make the user (transitively) manage themself.
func (s *Service) wouldCycle(ctx context.Context, userID, managerID string) (bool, error) {
	current := managerID
	// The walk is bounded by the org size; seen guards against an already
	// corrupt relation looping forever.
	seen := map[string]bool{}
	for current != "" && !seen[current] {
		if current == userID {
			return true, nil
		}
		seen[current] = true
		manager, err := s.Store.UserByID(ctx, current)
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		current = manager.ManagerID
	}
	return false, nil
}
