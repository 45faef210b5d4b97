package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"socialevents/internal/domain"
)

type interestService struct {
	interestRepo   domain.InterestRepository
	eventRepo      domain.EventRepository
	friendshipRepo domain.FriendshipRepository
	contextTimeout time.Duration
}

// NewInterestService creates an InterestService over the interest ledger.
func NewInterestService(interestRepo domain.InterestRepository,
	eventRepo domain.EventRepository,
	friendshipRepo domain.FriendshipRepository,
	timeout time.Duration,
) domain.InterestService {
	return &interestService{
		interestRepo:   interestRepo,
		eventRepo:      eventRepo,
		friendshipRepo: friendshipRepo,
		contextTimeout: timeout,
	}
}

func (s *interestService) MarkInterested(ctx context.Context, viewerID, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.requireVisible(ctx, viewerID, eventID); err != nil {
		return err
	}
	// The repository applies the mark and the counter adjustment atomically;
	// a repeated call simply observes the existing mark.
	if _, err := s.interestRepo.Mark(ctx, viewerID, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("mark interested: %w", err)
	}
	return nil
}

func (s *interestService) UnmarkInterested(ctx context.Context, viewerID, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.requireVisible(ctx, viewerID, eventID); err != nil {
		return err
	}
	if _, err := s.interestRepo.Unmark(ctx, viewerID, eventID); err != nil {
		return fmt.Errorf("unmark interested: %w", err)
	}
	return nil
}

func (s *interestService) IsInterested(ctx context.Context, viewerID, eventID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.requireVisible(ctx, viewerID, eventID); err != nil {
		return false, err
	}
	interested, err := s.interestRepo.IsInterested(ctx, viewerID, eventID)
	if err != nil {
		return false, fmt.Errorf("check interested: %w", err)
	}
	return interested, nil
}

func (s *interestService) requireVisible(ctx context.Context, viewerID, eventID string) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	visible, err := eventVisibleTo(ctx, s.friendshipRepo, viewerID, event)
	if err != nil {
		return fmt.Errorf("check visibility: %w", err)
	}
	if !visible {
		return domain.ErrNotFound
	}
	return nil
}
