package catalog

import "github.com/shopspring/decimal"

// Survey is a listing users can attempt for a reward. Surveys are immutable
// once seeded.
type Survey struct {
	ID       string
	Title    string
	Length   int // minutes
	Reward   decimal.Decimal
	Country  string
	Category string
	Active   bool
}
