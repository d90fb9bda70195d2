package validation

import "github.com/shopspring/decimal"

// MaxAmount fits decimal(12,2).
var MaxAmount = decimal.RequireFromString("9999999999.99")

var (
	hundred        = decimal.NewFromInt(100)
	splitTolerance = decimal.RequireFromString("0.01")
)

const (
	MaxNameLength        = 100
	MaxDescriptionLength = 500
	MaxReasonLength      = 500
	MaxAlertMessage      = 1000

	MinFrequencyDays = 1
	MaxFrequencyDays = 366
)
