// Package contract verifies that rendered dialog markup exposes the element
// ids client widgets mount on.
package contract

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ViolationError lists the ids that are missing from, or repeated in, a
// rendered body.
type ViolationError struct {
	Missing    []string
	Duplicated []string
}

func (e *ViolationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing ids: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Duplicated) > 0 {
		parts = append(parts, "duplicated ids: "+strings.Join(e.Duplicated, ", "))
	}
	return "contract: " + strings.Join(parts, "; ")
}

// Check parses markup and requires each id in ids to occur exactly once.
// Ids that are not part of the contract are never reported.
func Check(markup []byte, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return fmt.Errorf("contract: parse markup: %w", err)
	}

	counts := make(map[string]int)
	doc.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr("id"); ok {
			counts[id]++
		}
	})

	violation := &ViolationError{}
	for _, id := range ids {
		switch counts[id] {
		case 0:
			violation.Missing = append(violation.Missing, id)
		case 1:
		default:
			violation.Duplicated = append(violation.Duplicated, id)
		}
	}
	if len(violation.Missing) == 0 && len(violation.Duplicated) == 0 {
		return nil
	}
	sort.Strings(violation.Missing)
	sort.Strings(violation.Duplicated)
	return violation
}
