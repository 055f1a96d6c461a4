package service

import (
	"strconv"
	"strings"
)

// PageWindow is the slice of the ordered result set served by one request.
type PageWindow struct {
	Offset     int
	PageSize   int
	TotalCount int
}

// Navigation describes the neighbouring windows. Offsets are set only when the
// matching Has flag is true.
type Navigation struct {
	HasPrevious    bool
	PreviousOffset int
	HasNext        bool
	NextOffset     int
}

// Navigation computes previous/next windows. The offset is taken as given; an
// offset past the end still reports a previous window.
func (w PageWindow) Navigation() Navigation {
	var nav Navigation
	if w.Offset > 0 {
		nav.HasPrevious = true
		nav.PreviousOffset = max(0, w.Offset-w.PageSize)
	}
	// Written as a subtraction so oversized offsets cannot overflow.
	if w.Offset < w.TotalCount-w.PageSize {
		nav.HasNext = true
		nav.NextOffset = w.Offset + w.PageSize
	}
	return nav
}

// ParseOffset turns a raw page parameter into a start offset. Missing,
// malformed or negative input yields 0.
func ParseOffset(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}
