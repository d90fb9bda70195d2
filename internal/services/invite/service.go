// Package invite asks people to join a group by email. The invitee does not
// need an account when the invite is sent.
package invite

import (
	"context"
	"strings"

	apperrors "brokebesties/internal/errors"
	"brokebesties/internal/events"
	"brokebesties/internal/models"
	"brokebesties/internal/repositories"
	"brokebesties/internal/repositories/cache"
	"brokebesties/internal/services/consent"
	"brokebesties/internal/validation"

	"github.com/google/uuid"
)

type Outcome = consent.Outcome[*models.GroupInvite]

type binding struct{}

func (binding) Subject() string      { return events.SubjectGroupInvite }
func (binding) Arity() consent.Arity { return consent.SingleApproval }

// Roles addresses the invitee by email as well, so they can answer before
// the invite knows their account.
func (binding) Roles(inv *models.GroupInvite) consent.Roles {
	return consent.Roles{
		Initiator:    models.Party{ID: inv.InitiatorID},
		Counterparty: models.Party{ID: inv.CounterpartyID, Email: inv.InvitedEmail},
	}
}

func (binding) Prepare(ctx context.Context, tx repositories.InviteRepository, actor models.Actor, inv *models.GroupInvite) error {
	inv.InvitedEmail = strings.ToLower(strings.TrimSpace(inv.InvitedEmail))
	v := validation.New()
	v.Email("email", inv.InvitedEmail)
	if err := v.Err(); err != nil {
		return err
	}

	group, err := tx.FindGroup(ctx, inv.GroupID)
	if err != nil {
		return err
	}
	member, err := tx.IsMember(ctx, group.ID, actor.ID)
	if err != nil {
		return err
	}
	if !member {
		return apperrors.ErrNotGroupMember
	}

	invitee, found, err := tx.FindUserByEmail(ctx, inv.InvitedEmail)
	if err != nil {
		return err
	}
	if found {
		already, err := tx.IsMember(ctx, group.ID, invitee.ID)
		if err != nil {
			return err
		}
		if already {
			return apperrors.ErrAlreadyMember
		}
		inv.CounterpartyID = invitee.ID
	}

	if err := tx.DeleteResolved(ctx, group.ID, inv.InvitedEmail); err != nil {
		return err
	}
	inv.InitiatorID = actor.ID
	inv.Group = group
	return nil
}

func (binding) Reciprocal(_, _ *models.GroupInvite) bool { return false }

func (binding) Summary(inv *models.GroupInvite) string {
	if inv.Group != nil {
		return "invitation to join " + inv.Group.Name
	}
	return "group invitation"
}

type Service struct {
	repo    repositories.InviteRepository
	machine *consent.Machine[*models.GroupInvite, repositories.InviteRepository]
	inbox   *cache.Inbox
}

func NewService(repo repositories.InviteRepository, inbox *cache.Inbox, notifier events.Notifier) *Service {
	return &Service{
		repo:    repo,
		machine: consent.New[*models.GroupInvite, repositories.InviteRepository](repo, binding{}, consent.WithNotifier(notifier)),
		inbox:   inbox,
	}
}

// Create invites email to groupID. Any member may invite.
func (s *Service) Create(ctx context.Context, actor models.Actor, groupID uuid.UUID, email string) (*models.GroupInvite, error) {
	out, err := s.machine.Propose(ctx, actor, &models.GroupInvite{GroupID: groupID, InvitedEmail: email})
	if err != nil {
		return nil, err
	}
	return out.Proposal, nil
}

// Accept joins the group. The membership is created in the same transaction.
func (s *Service) Accept(ctx context.Context, actor models.Actor, id uuid.UUID) (Outcome, error) {
	return s.machine.Respond(ctx, actor, id, consent.Approve)
}

func (s *Service) Reject(ctx context.Context, actor models.Actor, id uuid.UUID) (Outcome, error) {
	return s.machine.Respond(ctx, actor, id, consent.Reject)
}

// Cancel withdraws an invite. Only the member who sent it may cancel it.
func (s *Service) Cancel(ctx context.Context, actor models.Actor, id uuid.UUID) (Outcome, error) {
	return s.machine.Cancel(ctx, actor, id)
}

// ListIncoming returns pending invites addressed to the actor's email.
func (s *Service) ListIncoming(ctx context.Context, actor models.Actor) ([]models.GroupInvite, error) {
	return s.repo.ListIncoming(ctx, actor.Email)
}

// ListForGroup returns every invite of a group the actor belongs to.
func (s *Service) ListForGroup(ctx context.Context, actor models.Actor, groupID uuid.UUID) ([]models.GroupInvite, error) {
	if _, err := s.repo.FindGroup(ctx, groupID); err != nil {
		return nil, err
	}
	member, err := s.repo.IsMember(ctx, groupID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, apperrors.ErrNotGroupMember
	}
	return s.repo.ListForGroup(ctx, groupID)
}

func (s *Service) PendingCount(ctx context.Context, actor models.Actor) (int64, error) {
	email := strings.ToLower(actor.Email)
	return s.inbox.Count(ctx, events.SubjectGroupInvite, email, func(ctx context.Context) (int64, error) {
		return s.repo.CountIncoming(ctx, email)
	})
}
