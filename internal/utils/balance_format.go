package utils

import (
	"github.com/shopspring/decimal"
)

// balancePrecision is the display precision for account balances. The ledger
// is single-currency with two minor digits.
const balancePrecision = 2

// FormatBalance formats a balance for display.
// Example: 12.3456 returns "12.35", 70 returns "70.00".
func FormatBalance(amount decimal.Decimal) string {
	return amount.StringFixed(balancePrecision)
}
