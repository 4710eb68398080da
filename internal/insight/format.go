package insight

import "github.com/shopspring/decimal"

// FormatMoney renders an amount for display alongside derived metrics
func FormatMoney(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}
