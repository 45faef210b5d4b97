package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"socialevents/internal/domain"
)

type friendshipService struct {
	friendshipRepo domain.FriendshipRepository
	userRepo       domain.UserRepository
	contextTimeout time.Duration
}

// NewFriendshipService creates a FriendshipService over the friendship graph.
func NewFriendshipService(friendshipRepo domain.FriendshipRepository,
	userRepo domain.UserRepository,
	timeout time.Duration,
) domain.FriendshipService {
	return &friendshipService{
		friendshipRepo: friendshipRepo,
		userRepo:       userRepo,
		contextTimeout: timeout,
	}
}

func (s *friendshipService) SendRequest(ctx context.Context, requesterID, recipientID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if requesterID == recipientID {
		return fmt.Errorf("cannot befriend yourself: %w", domain.ErrInvalidInput)
	}
	if _, err := s.userRepo.GetByID(ctx, recipientID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get recipient: %w", err)
	}
	// A row in any state for the pair makes this a silent no-op; re-requesting
	// after rejection is deliberately not supported.
	if _, err := s.friendshipRepo.CreateRequest(ctx, requesterID, recipientID); err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return nil
}

func (s *friendshipService) Respond(ctx context.Context, requesterID, recipientID string, decision domain.FriendshipDecision) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	status := domain.FriendshipAccepted
	if decision == domain.DecisionReject {
		status = domain.FriendshipRejected
	}
	updated, err := s.friendshipRepo.UpdatePending(ctx, requesterID, recipientID, status)
	if err != nil {
		return fmt.Errorf("update request: %w", err)
	}
	if !updated {
		return domain.ErrNotFound
	}
	return nil
}

func (s *friendshipService) ListPending(ctx context.Context, recipientID string) ([]*domain.PendingFriendRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reqs, err := s.friendshipRepo.ListPendingFor(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("list pending requests: %w", err)
	}
	if reqs == nil {
		reqs = []*domain.PendingFriendRequest{}
	}
	return reqs, nil
}

func (s *friendshipService) GetWithUser(ctx context.Context, viewerID, otherID string) (*domain.Friendship, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	f, err := s.friendshipRepo.GetByPair(ctx, viewerID, otherID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get friendship: %w", err)
	}
	return f, nil
}
