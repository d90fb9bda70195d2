// Package debttx handles requests to drop, modify or settle a debt. Each
// request needs both the lender and the borrower before it touches the debt.
package debttx

import (
	"context"

	apperrors "brokebesties/internal/errors"
	"brokebesties/internal/events"
	"brokebesties/internal/models"
	"brokebesties/internal/repositories"
	"brokebesties/internal/repositories/cache"
	"brokebesties/internal/services/consent"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Machine = consent.Machine[*models.DebtTransaction, repositories.DebtTransactionRepository]

type Outcome = consent.Outcome[*models.DebtTransaction]

// ProposeInput describes the change being asked for.
type ProposeInput struct {
	Type                models.DebtTransactionType `json:"type"`
	ProposedAmount      *decimal.Decimal           `json:"proposed_amount,omitempty"`
	ProposedDescription *string                    `json:"proposed_description,omitempty"`
	Reason              *string                    `json:"reason,omitempty"`
}

type Service struct {
	repo    repositories.DebtTransactionRepository
	debts   repositories.DebtRepository
	machine *Machine
	inbox   *cache.Inbox
}

func NewService(repo repositories.DebtTransactionRepository, debts repositories.DebtRepository, inbox *cache.Inbox, notifier events.Notifier) *Service {
	return &Service{
		repo:    repo,
		debts:   debts,
		machine: consent.New[*models.DebtTransaction, repositories.DebtTransactionRepository](repo, binding{}, consent.WithNotifier(notifier)),
		inbox:   inbox,
	}
}

// Propose opens a request against debtID. The proposer's approval is recorded
// with it.
func (s *Service) Propose(ctx context.Context, actor models.Actor, debtID uuid.UUID, in ProposeInput) (*models.DebtTransaction, error) {
	draft := &models.DebtTransaction{
		DebtID:              debtID,
		Type:                in.Type,
		ProposedAmount:      in.ProposedAmount,
		ProposedDescription: in.ProposedDescription,
		Reason:              in.Reason,
	}
	out, err := s.machine.Propose(ctx, actor, draft)
	if err != nil {
		return nil, err
	}
	return out.Proposal, nil
}

// Respond approves or rejects a pending request. The change is applied to
// the debt when the second approval lands.
func (s *Service) Respond(ctx context.Context, actor models.Actor, id uuid.UUID, approve bool) (Outcome, error) {
	return s.machine.Respond(ctx, actor, id, consent.DecisionOf(approve))
}

// Cancel withdraws a pending request. Only its proposer may cancel it.
func (s *Service) Cancel(ctx context.Context, actor models.Actor, id uuid.UUID) (Outcome, error) {
	return s.machine.Cancel(ctx, actor, id)
}

func (s *Service) Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.DebtTransaction, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.machine.Roles(t).IsParty(actor) {
		return nil, apperrors.ErrNotParty
	}
	return t, nil
}

// ListForDebt returns the request history of a debt, newest first.
func (s *Service) ListForDebt(ctx context.Context, actor models.Actor, debtID uuid.UUID) ([]models.DebtTransaction, error) {
	debt, err := s.debts.FindByID(ctx, debtID)
	if err != nil {
		return nil, err
	}
	if !debt.IsParty(actor.ID) {
		return nil, apperrors.ErrNotParty
	}
	return s.repo.ListForDebt(ctx, debtID)
}

// ListPending returns the requests waiting on the actor's decision.
func (s *Service) ListPending(ctx context.Context, actor models.Actor, limit, offset int) ([]models.DebtTransaction, int64, error) {
	return s.repo.ListAwaiting(ctx, actor.ID, limit, offset)
}

func (s *Service) PendingCount(ctx context.Context, actor models.Actor) (int64, error) {
	return s.inbox.Count(ctx, events.SubjectDebtTransaction, actor.ID.String(), func(ctx context.Context) (int64, error) {
		return s.repo.CountAwaiting(ctx, actor.ID)
	})
}

// NeedsToAct reports whether t is waiting on the actor.
func (s *Service) NeedsToAct(actor models.Actor, t *models.DebtTransaction) bool {
	return s.machine.NeedsToAct(actor, t)
}
