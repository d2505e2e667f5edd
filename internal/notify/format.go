package notify

import (
	"fmt"
	"strings"

	"github.com/jdhwiz/brickwatch/internal/report"
)

// AlertSubject is the subject line of a per-target alert.
func AlertSubject(o report.Outcome) string {
	return fmt.Sprintf("Stock alert: %s - %s", o.State, o.Target.ProductName())
}

// AlertBody is the body of a per-target alert. It always carries the URL
// and the resolved state; the operator acts on these two alone.
func AlertBody(o report.Outcome) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Product: %s\n", o.Target.ProductName())
	if o.Title != "" {
		fmt.Fprintf(&b, "Page title: %s\n", o.Title)
	}
	fmt.Fprintf(&b, "Status: %s\n", o.State)
	fmt.Fprintf(&b, "URL: %s\n", o.Target.URL)
	if o.ErrorDetail != "" {
		fmt.Fprintf(&b, "Error: %s\n", o.ErrorDetail)
	}
	fmt.Fprintf(&b, "Checked: %s\n", o.CheckedAt.Format("2006-01-02 15:04:05 MST"))

	return b.String()
}

// SummarySubject is the subject line of the consolidated end-of-run report.
func SummarySubject() string {
	return "Stock Check Summary"
}
