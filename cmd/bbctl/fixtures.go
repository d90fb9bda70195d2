package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	apperrors "brokebesties/internal/errors"
	"brokebesties/internal/events"
	"brokebesties/internal/models"
	"brokebesties/internal/repositories"
	"brokebesties/internal/services/debt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Fixtures is the seed file layout.
type Fixtures struct {
	Users  []UserFixture  `yaml:"users"`
	Groups []GroupFixture `yaml:"groups"`
	Debts  []DebtFixture  `yaml:"debts"`
}

type UserFixture struct {
	ID    string `yaml:"id"`
	Email string `yaml:"email"`
	Name  string `yaml:"name"`
}

// GroupFixture members are emails; the first one becomes admin.
type GroupFixture struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Members     []string `yaml:"members"`
}

type DebtFixture struct {
	Group       string `yaml:"group"`
	Lender      string `yaml:"lender"`
	Borrower    string `yaml:"borrower"`
	Amount      string `yaml:"amount"`
	Description string `yaml:"description"`
}

type SeedResult struct {
	Users, Groups, Debts int
}

// LoadFixtures decodes and checks a fixture file.
func LoadFixtures(r io.Reader) (*Fixtures, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var fx Fixtures
	if err := dec.Decode(&fx); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	if err := fx.validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

func (fx *Fixtures) validate() error {
	users := map[string]bool{}
	for i, u := range fx.Users {
		email := normalize(u.Email)
		if email == "" {
			return fmt.Errorf("users[%d]: email is required", i)
		}
		if u.ID != "" {
			if _, err := uuid.Parse(u.ID); err != nil {
				return fmt.Errorf("users[%d]: invalid id %q", i, u.ID)
			}
		}
		users[email] = true
	}

	groups := map[string]bool{}
	for i, g := range fx.Groups {
		if strings.TrimSpace(g.Name) == "" {
			return fmt.Errorf("groups[%d]: name is required", i)
		}
		if groups[g.Name] {
			return fmt.Errorf("groups[%d]: duplicate group %q", i, g.Name)
		}
		if len(g.Members) == 0 {
			return fmt.Errorf("groups[%d]: at least one member is required", i)
		}
		for _, m := range g.Members {
			if !users[normalize(m)] {
				return fmt.Errorf("groups[%d]: unknown member %q", i, m)
			}
		}
		groups[g.Name] = true
	}

	for i, d := range fx.Debts {
		if !groups[d.Group] {
			return fmt.Errorf("debts[%d]: unknown group %q", i, d.Group)
		}
		if !users[normalize(d.Lender)] || !users[normalize(d.Borrower)] {
			return fmt.Errorf("debts[%d]: lender and borrower must be listed users", i)
		}
		if _, err := decimal.NewFromString(d.Amount); err != nil {
			return fmt.Errorf("debts[%d]: invalid amount %q", i, d.Amount)
		}
	}
	return nil
}

// Apply writes the fixtures in one transaction. Existing users are matched by email.
func (fx *Fixtures) Apply(ctx context.Context, db *gorm.DB) (SeedResult, error) {
	var res SeedResult
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userRepo := repositories.NewUserRepository(tx)
		groupRepo := repositories.NewGroupRepository(tx)
		debts := debt.NewService(repositories.NewDebtRepository(tx), events.Discard)

		actors := map[string]models.Actor{}
		for _, u := range fx.Users {
			user, err := fx.user(ctx, userRepo, u)
			if err != nil {
				return err
			}
			actors[user.Email] = models.Actor{ID: user.ID, Email: user.Email, Name: user.Name}
			res.Users++
		}

		groups := map[string]uuid.UUID{}
		for _, g := range fx.Groups {
			group := &models.Group{Name: g.Name, Description: g.Description}
			admin := actors[normalize(g.Members[0])]
			if err := groupRepo.Create(ctx, group, admin.ID); err != nil {
				return err
			}
			for _, m := range g.Members[1:] {
				member := models.GroupMember{GroupID: group.ID, UserID: actors[normalize(m)].ID, Role: models.RoleMember}
				if err := tx.Create(&member).Error; err != nil {
					return fmt.Errorf("failed to add %s to %s: %w", m, g.Name, err)
				}
			}
			groups[g.Name] = group.ID
			res.Groups++
		}

		for i, d := range fx.Debts {
			_, err := debts.Create(ctx, actors[normalize(d.Lender)], debt.CreateInput{
				GroupID:     groups[d.Group],
				BorrowerID:  actors[normalize(d.Borrower)].ID,
				Amount:      decimal.RequireFromString(d.Amount),
				Description: d.Description,
			})
			if err != nil {
				return fmt.Errorf("debts[%d]: %w", i, err)
			}
			res.Debts++
		}
		return nil
	})
	return res, err
}

func (fx *Fixtures) user(ctx context.Context, repo repositories.UserRepository, u UserFixture) (*models.User, error) {
	email := normalize(u.Email)
	existing, err := repo.FindByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}
	user := &models.User{Email: email, Name: u.Name}
	if u.ID != "" {
		user.ID = uuid.MustParse(u.ID)
	}
	if user.Name == "" {
		user.Name = email
	}
	if err := repo.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
