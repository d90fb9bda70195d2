package main

import (
	"context"
	"fmt"
	"io"

	"brokebesties/internal/events"
	"brokebesties/internal/models"
	"brokebesties/internal/repositories"
	"brokebesties/internal/services/debttx"
	"brokebesties/internal/services/friend"
	"brokebesties/internal/services/invite"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// inboxLimit caps how many debt requests are listed.
const inboxLimit = 100

// InboxReport lists what a user has been asked to decide.
type InboxReport struct {
	User           string      `yaml:"user"`
	DebtRequests   []InboxItem `yaml:"debt_requests"`
	FriendRequests []InboxItem `yaml:"friend_requests"`
	GroupInvites   []InboxItem `yaml:"group_invites"`
	Total          int         `yaml:"total"`
}

type InboxItem struct {
	ID      string `yaml:"id"`
	From    string `yaml:"from"`
	Summary string `yaml:"summary"`
	Status  string `yaml:"status"`
}

// BuildInbox collects requests the user still has to answer.
func BuildInbox(ctx context.Context, db *gorm.DB, userID string) (*InboxReport, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q", userID)
	}
	user, err := repositories.NewUserRepository(db).FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	actor := models.Actor{ID: user.ID, Email: user.Email, Name: user.Name}

	txs := debttx.NewService(repositories.NewDebtTransactionRepository(db), repositories.NewDebtRepository(db), nil, events.Discard)
	friends := friend.NewService(repositories.NewFriendRepository(db), nil, events.Discard)
	invites := invite.NewService(repositories.NewInviteRepository(db), nil, events.Discard)

	report := &InboxReport{User: user.Email}

	pending, _, err := txs.ListPending(ctx, actor, inboxLimit, 0)
	if err != nil {
		return nil, err
	}
	for i := range pending {
		t := &pending[i]
		if !txs.NeedsToAct(actor, t) {
			continue
		}
		report.DebtRequests = append(report.DebtRequests, InboxItem{
			ID:      t.ID.String(),
			From:    t.InitiatorID.String(),
			Summary: string(t.Type),
			Status:  string(t.Status),
		})
	}

	incoming, err := friends.ListIncoming(ctx, actor)
	if err != nil {
		return nil, err
	}
	for _, f := range incoming {
		from := f.InitiatorID.String()
		if f.Requester != nil {
			from = f.Requester.Email
		}
		report.FriendRequests = append(report.FriendRequests, InboxItem{
			ID: f.ID.String(), From: from, Summary: "friend request", Status: string(f.Status),
		})
	}

	invs, err := invites.ListIncoming(ctx, actor)
	if err != nil {
		return nil, err
	}
	for _, inv := range invs {
		summary := "group invitation"
		if inv.Group != nil {
			summary = "invitation to join " + inv.Group.Name
		}
		report.GroupInvites = append(report.GroupInvites, InboxItem{
			ID: inv.ID.String(), From: inv.InitiatorID.String(), Summary: summary, Status: string(inv.Status),
		})
	}

	report.Total = len(report.DebtRequests) + len(report.FriendRequests) + len(report.GroupInvites)
	return report, nil
}

// Write renders the report as YAML.
func (r *InboxReport) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}
