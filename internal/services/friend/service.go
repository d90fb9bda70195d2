// Package friend manages friend requests and the friendships they become.
package friend

import (
	"context"
	"time"

	apperrors "brokebesties/internal/errors"
	"brokebesties/internal/events"
	"brokebesties/internal/models"
	"brokebesties/internal/repositories"
	"brokebesties/internal/repositories/cache"
	"brokebesties/internal/services/consent"

	"github.com/google/uuid"
)

type Outcome = consent.Outcome[*models.Friend]

// binding: only the recipient decides. A request sent back to someone who
// already asked accepts theirs.
type binding struct{}

func (binding) Subject() string      { return events.SubjectFriend }
func (binding) Arity() consent.Arity { return consent.SingleApproval }

func (binding) Roles(f *models.Friend) consent.Roles {
	return consent.Roles{
		Initiator:    models.Party{ID: f.InitiatorID},
		Counterparty: models.Party{ID: f.CounterpartyID},
	}
}

func (binding) Prepare(ctx context.Context, tx repositories.FriendRepository, actor models.Actor, f *models.Friend) error {
	if f.CounterpartyID == actor.ID {
		return apperrors.ErrSelfFriendRequest
	}
	if _, err := tx.FindUser(ctx, f.CounterpartyID); err != nil {
		return err
	}

	existing, found, err := tx.FindPair(ctx, actor.ID, f.CounterpartyID)
	if err != nil {
		return err
	}
	if found {
		switch existing.Status {
		case models.StatusApproved:
			return apperrors.ErrAlreadyFriends
		case models.StatusRejected, models.StatusCancelled:
			// the pair index holds one row; a closed request makes way for the new one
			if err := tx.Delete(ctx, existing.ID); err != nil {
				return err
			}
		}
	}

	f.InitiatorID = actor.ID
	return nil
}

func (binding) Reciprocal(existing, draft *models.Friend) bool {
	return existing.InitiatorID == draft.CounterpartyID && existing.CounterpartyID == draft.InitiatorID
}

func (binding) Summary(*models.Friend) string { return "friend request" }

type Service struct {
	repo     repositories.FriendRepository
	machine  *consent.Machine[*models.Friend, repositories.FriendRepository]
	inbox    *cache.Inbox
	notifier events.Notifier
}

func NewService(repo repositories.FriendRepository, inbox *cache.Inbox, notifier events.Notifier) *Service {
	if notifier == nil {
		notifier = events.Discard
	}
	return &Service{
		repo:     repo,
		machine:  consent.New[*models.Friend, repositories.FriendRepository](repo, binding{}, consent.WithNotifier(notifier)),
		inbox:    inbox,
		notifier: notifier,
	}
}

// Send asks recipientID to be friends. If recipientID already has a pending
// request to the actor, that request is accepted and Outcome.Merged is set.
func (s *Service) Send(ctx context.Context, actor models.Actor, recipientID uuid.UUID) (Outcome, error) {
	return s.machine.Propose(ctx, actor, &models.Friend{
		Consent: models.Consent{CounterpartyID: recipientID},
	})
}

func (s *Service) Accept(ctx context.Context, actor models.Actor, id uuid.UUID) (Outcome, error) {
	return s.machine.Respond(ctx, actor, id, consent.Approve)
}

func (s *Service) Reject(ctx context.Context, actor models.Actor, id uuid.UUID) (Outcome, error) {
	return s.machine.Respond(ctx, actor, id, consent.Reject)
}

func (s *Service) Cancel(ctx context.Context, actor models.Actor, id uuid.UUID) (Outcome, error) {
	return s.machine.Cancel(ctx, actor, id)
}

// Remove ends an accepted friendship. Either friend may remove it.
func (s *Service) Remove(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return s.remove(ctx, actor, f)
}

func (s *Service) remove(ctx context.Context, actor models.Actor, f *models.Friend) error {
	roles := s.machine.Roles(f)
	if !roles.IsParty(actor) {
		return apperrors.ErrNotParty
	}
	if f.Status != models.StatusApproved {
		return apperrors.ErrFriendshipNotFound
	}
	if err := s.repo.Delete(ctx, f.ID); err != nil {
		return err
	}

	ev := events.Event{
		Type:         events.Removed,
		Subject:      events.SubjectFriend,
		SubjectID:    f.ID,
		Actor:        actor,
		Recipient:    roles.Other(actor),
		Participants: []models.Party{roles.Initiator, roles.Counterparty},
		Summary:      "friendship removed",
		At:           time.Now(),
	}
	events.Send(ctx, s.notifier, ev)
	return nil
}

// Dismiss is the single "delete" entry point for a friend row. It reads the
// current status and takes the one transition that applies to the actor.
func (s *Service) Dismiss(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	roles := s.machine.Roles(f)
	if !roles.IsParty(actor) {
		return apperrors.ErrNotParty
	}

	switch {
	case f.Status == models.StatusApproved:
		return s.remove(ctx, actor, f)
	case f.Status == models.StatusPending && roles.IsInitiator(actor):
		_, err = s.Cancel(ctx, actor, id)
	case f.Status == models.StatusPending:
		_, err = s.Reject(ctx, actor, id)
	default:
		err = s.repo.Delete(ctx, id)
	}
	return err
}

// ListFriends returns the actor's accepted friendships.
func (s *Service) ListFriends(ctx context.Context, actor models.Actor, limit, offset int) ([]models.Friend, int64, error) {
	return s.repo.ListAccepted(ctx, actor.ID, limit, offset)
}

func (s *Service) ListIncoming(ctx context.Context, actor models.Actor) ([]models.Friend, error) {
	return s.repo.ListIncoming(ctx, actor.ID)
}

func (s *Service) ListOutgoing(ctx context.Context, actor models.Actor) ([]models.Friend, error) {
	return s.repo.ListOutgoing(ctx, actor.ID)
}

func (s *Service) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	f, found, err := s.repo.FindPair(ctx, a, b)
	if err != nil || !found {
		return false, err
	}
	return f.Status == models.StatusApproved, nil
}

func (s *Service) PendingCount(ctx context.Context, actor models.Actor) (int64, error) {
	return s.inbox.Count(ctx, events.SubjectFriend, actor.ID.String(), func(ctx context.Context) (int64, error) {
		return s.repo.CountIncoming(ctx, actor.ID)
	})
}
