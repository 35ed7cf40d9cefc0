package billing

// The lock guard is the single authority every order-mutation path consults
// before writing invoice.amount. An invoice is locked once it exists and has
// left the plain just-emitted state: any payment activity, or any status
// other than UNPAID, freezes the amount. Order edits against a locked
// invoice must abort their whole transaction with INVOICE_LOCKED_ERROR.

// IsInvoiceLocked reports whether the invoice freezes its order's amounts.
// A nil invoice (not yet emitted) never locks anything.
func IsInvoiceLocked(invoice *Invoice) bool {
	if invoice == nil {
		return false
	}
	if invoice.Status != InvoiceStatusUnpaid {
		return true
	}
	return len(invoice.Payments) > 0
}

// CanModifyInvoiceAmount reports whether the guarded recomputation path may
// re-align the invoice amount on a new order total.
func CanModifyInvoiceAmount(invoice *Invoice) bool {
	return !IsInvoiceLocked(invoice)
}
