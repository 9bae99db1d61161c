package utils

import "fmt"

// FormatMoney keeps consistent decimal formatting for currency fields.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// FormatBaht renders an amount with the currency marker used across the
// admin screens.
func FormatBaht(amount float64) string {
	return fmt.Sprintf("฿%.2f", amount)
}
