package lifecycle

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// IncrementPolicy decides the minimum next bid for a current price
type IncrementPolicy interface {
	MinimumBid(current decimal.Decimal) decimal.Decimal
}

// DefaultPolicy is the flat +1 increment the marketplace enforces today
var DefaultPolicy IncrementPolicy = FlatIncrement{Step: decimal.NewFromInt(1)}

// FlatIncrement adds the same step at every price
type FlatIncrement struct {
	Step decimal.Decimal
}

func (f FlatIncrement) MinimumBid(current decimal.Decimal) decimal.Decimal {
	return current.Add(f.Step)
}

var (
	tierLowCeiling = decimal.NewFromInt(1000)
	tierMidCeiling = decimal.NewFromInt(5000)
	tierLowStep    = decimal.NewFromInt(50)
	tierMidStep    = decimal.NewFromInt(100)
	tierHighStep   = decimal.NewFromInt(200)
)

// TieredIncrement follows the published auction policy:
// under 1,000 the step is 50, from 1,000 to 5,000 it is 100, above 5,000 it is 200.
type TieredIncrement struct{}

func (TieredIncrement) MinimumBid(current decimal.Decimal) decimal.Decimal {
	switch {
	case current.LessThan(tierLowCeiling):
		return current.Add(tierLowStep)
	case current.LessThanOrEqual(tierMidCeiling):
		return current.Add(tierMidStep)
	default:
		return current.Add(tierHighStep)
	}
}

// ParsePolicy maps a config value to a policy. Empty means flat.
func ParsePolicy(name string) (IncrementPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "flat":
		return DefaultPolicy, nil
	case "tiered":
		return TieredIncrement{}, nil
	default:
		return nil, fmt.Errorf("lifecycle: unknown bid increment policy %q", name)
	}
}
