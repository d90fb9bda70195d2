package validation

import (
	"strings"

	"brokebesties/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Debt validates a new or edited debt.
func (v *Validator) Debt(d *models.Debt) {
	v.Required("group_id", d.GroupID)
	v.Required("borrower_id", d.BorrowerID)
	v.Amount("amount", d.Amount)
	v.MaxLength("description", d.Description, MaxDescriptionLength)
	v.Check(d.LenderID != d.BorrowerID, "borrower_id", "lender and borrower cannot be the same")
}

// Group validates a group before creation.
func (v *Validator) Group(g *models.Group) {
	v.Required("name", g.Name)
	v.MaxLength("name", g.Name, MaxNameLength)
	v.MaxLength("description", g.Description, MaxDescriptionLength)
}

// Alert validates a reminder. It targets exactly one debt or recurring payment.
func (v *Validator) Alert(a *models.Alert) {
	v.Check((a.DebtID == nil) != (a.RecurringPaymentID == nil), "debt_id",
		"exactly one of debt_id or recurring_payment_id is required")
	if a.Message != nil {
		v.MaxLength("message", *a.Message, MaxAlertMessage)
	}
	if a.Deadline != nil {
		v.Future("deadline", *a.Deadline)
	}
}

// RecurringPayment validates a recurring payment and its split. Shares must be
// positive, name distinct borrowers other than the lender and add up to 100%.
func (v *Validator) RecurringPayment(p *models.RecurringPayment) {
	v.Amount("amount", p.Amount)
	v.Check(p.FrequencyDays >= MinFrequencyDays, "frequency_days", "must be at least 1 day")
	v.Check(p.FrequencyDays <= MaxFrequencyDays, "frequency_days", "must not be more than 366 days")
	v.Check(p.Status.Valid(), "status", "must be active or inactive")
	if p.Description != nil {
		v.MaxLength("description", *p.Description, MaxDescriptionLength)
	}

	if len(p.Borrowers) == 0 {
		v.AddError("borrowers", "must contain at least one item")
		return
	}
	seen := make(map[uuid.UUID]bool, len(p.Borrowers))
	total := decimal.Zero
	for _, b := range p.Borrowers {
		v.Check(b.UserID != uuid.Nil, "borrowers", "user_id must not be empty")
		v.Check(b.UserID != p.LenderID, "borrowers", "the lender cannot be a borrower")
		v.Check(!seen[b.UserID], "borrowers", "cannot add the same borrower twice")
		v.Check(b.SplitPercentage.IsPositive(), "borrowers", "split percentages must be positive")
		seen[b.UserID] = true
		total = total.Add(b.SplitPercentage)
	}
	v.Check(total.Sub(hundred).Abs().LessThanOrEqual(splitTolerance), "borrowers", "split percentages must sum to 100")
}

// Tab validates a private tab.
func (v *Validator) Tab(t *models.Tab) {
	v.Amount("amount", t.Amount)
	v.Required("description", t.Description)
	v.MaxLength("description", t.Description, MaxDescriptionLength)
	v.Required("person_name", t.PersonName)
	v.MaxLength("person_name", t.PersonName, MaxNameLength)
	v.Check(t.Status.Valid(), "status", "must be lending, borrowing or paid")
}

// TrimTab normalises the free-text fields of a tab.
func TrimTab(t *models.Tab) {
	t.Description = strings.TrimSpace(t.Description)
	t.PersonName = strings.TrimSpace(t.PersonName)
}
