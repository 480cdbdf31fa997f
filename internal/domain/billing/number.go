package billing

import "fmt"

// InvoiceNumber renders the persisted numbering format F-YYYY-NNNN.
// The sequence value comes from an atomic storage-side counter.
func InvoiceNumber(year int, sequence int64) string {
	return fmt.Sprintf("F-%d-%04d", year, sequence)
}
