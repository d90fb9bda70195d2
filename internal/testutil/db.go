// Package testutil provides a real database for repository and service tests.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"brokebesties/internal/events"
	"brokebesties/internal/models"
	"brokebesties/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDB opens a migrated SQLite database in a per-test temp dir.
// Transactions take the write lock on BEGIN so concurrent units of work
// serialize the way row locks make them serialize in Postgres.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	dsn := fmt.Sprintf("file:%s?_busy_timeout=10000&_txlock=immediate&_foreign_keys=1", path)
	db, err := gorm.Open(sqlite.Open(dsn), repositories.NewGormConfig(false))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := repositories.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database instance: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// CreateUser inserts a user and returns it as an actor.
func CreateUser(t *testing.T, db *gorm.DB, email string) models.Actor {
	t.Helper()
	user := models.User{ID: uuid.New(), Email: email, Name: email}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", email, err)
	}
	return models.Actor{ID: user.ID, Email: user.Email, Name: user.Name}
}

// CreateGroup inserts a group whose members are the given actors; the first is admin.
func CreateGroup(t *testing.T, db *gorm.DB, name string, members ...models.Actor) *models.Group {
	t.Helper()
	if len(members) == 0 {
		t.Fatal("CreateGroup needs at least one member")
	}
	group := &models.Group{Name: name}
	if err := repositories.NewGroupRepository(db).Create(context.Background(), group, members[0].ID); err != nil {
		t.Fatalf("Failed to create group %s: %v", name, err)
	}
	for _, m := range members[1:] {
		member := models.GroupMember{GroupID: group.ID, UserID: m.ID, Role: models.RoleMember}
		if err := db.Create(&member).Error; err != nil {
			t.Fatalf("Failed to add member %s: %v", m.Email, err)
		}
	}
	return group
}

// CreateDebt records that borrower owes lender amount in group.
func CreateDebt(t *testing.T, db *gorm.DB, group *models.Group, lender, borrower models.Actor, amount string) *models.Debt {
	t.Helper()
	debt := &models.Debt{
		GroupID:     group.ID,
		LenderID:    lender.ID,
		BorrowerID:  borrower.ID,
		Amount:      decimal.RequireFromString(amount),
		Description: "dinner",
	}
	if err := db.Create(debt).Error; err != nil {
		t.Fatalf("Failed to create debt: %v", err)
	}
	return debt
}

// Recorder is a thread-safe events.Notifier that keeps every event.
type Recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *Recorder) Notify(_ context.Context, ev events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Last returns the most recent event, or the zero Event.
func (r *Recorder) Last() events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return events.Event{}
	}
	return r.events[len(r.events)-1]
}
