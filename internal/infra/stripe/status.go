package stripe

import "strings"

// NormalizePaymentStatus maps a checkout session payment_status onto the
// payment statuses stored locally.
func NormalizePaymentStatus(s string) string {
	switch strings.TrimSpace(s) {
	case "paid", "no_payment_required":
		return "paid"
	case "unpaid", "":
		return "pending"
	case "canceled", "expired":
		return "failed"
	default:
		return strings.TrimSpace(s)
	}
}
