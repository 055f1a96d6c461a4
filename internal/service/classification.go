package service

import "github.com/spec-kit/ticket-listing/internal/domain"

var urgencyLabels = map[domain.TicketUrgency]string{
	domain.TicketUrgencyLow:      "Low",
	domain.TicketUrgencyMedium:   "Medium",
	domain.TicketUrgencyHigh:     "High",
	domain.TicketUrgencyVeryHigh: "Very high",
}

// UrgencyLabel maps an urgency code to its display label. Unknown codes yield "".
func UrgencyLabel(code domain.TicketUrgency) string {
	return urgencyLabels[code]
}

// RowBucketFor returns the striping bucket for a row counter.
func RowBucketFor(rowIndex int) domain.RowBucket {
	if rowIndex%2 == 0 {
		return domain.RowBucketA
	}
	return domain.RowBucketB
}
