package enums

import (
	"fmt"
	"strings"
)

// Slug returns url-friendly form of the status, i.e. "under-review"
func (e Status) Slug() string {
	return strings.ReplaceAll(strings.ToLower(e.name), " ", "-")
}

// ParseStatusInput converts user input to Status. Unlike ParseStatus it is case-insensitive,
// ignores surrounding spaces and accepts slugs.
func ParseStatusInput(v string) (Status, error) {
	norm := strings.ToLower(strings.TrimSpace(v))
	for _, s := range StatusValues() {
		if norm == strings.ToLower(s.name) || norm == s.Slug() {
			return s, nil
		}
	}
	return Status{}, fmt.Errorf("invalid status %q", v)
}
