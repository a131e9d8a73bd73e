package slot

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

type Sort string

const (
	SortAll       Sort = "all"
	SortPriceLow  Sort = "price_low"
	SortPriceHigh Sort = "price_high"
	SortRating    Sort = "rating"
)

func ParseSort(v string) (Sort, error) {
	switch s := Sort(strings.ToLower(strings.TrimSpace(v))); s {
	case "", SortAll:
		return SortAll, nil
	case SortPriceLow, SortPriceHigh, SortRating:
		return s, nil
	default:
		return "", fmt.Errorf("%w: unknown sort %q", ErrValidation, v)
	}
}

// Query filters and orders the explore listing.
type Query struct {
	Text string
	Sort Sort
}

// Search returns the slots matching q.Text in title, address or description,
// ordered by q.Sort. Ties keep catalog order.
func Search(slots []Slot, q Query) []Slot {
	needle := strings.ToLower(strings.TrimSpace(q.Text))

	out := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if needle == "" || s.matches(needle) {
			out = append(out, s)
		}
	}

	switch q.Sort {
	case SortPriceLow:
		slices.SortStableFunc(out, func(a, b Slot) int { return cmp.Compare(a.PricePerHour, b.PricePerHour) })
	case SortPriceHigh:
		slices.SortStableFunc(out, func(a, b Slot) int { return cmp.Compare(b.PricePerHour, a.PricePerHour) })
	case SortRating:
		slices.SortStableFunc(out, func(a, b Slot) int { return cmp.Compare(b.rating(), a.rating()) })
	}
	return out
}

func (s *Slot) matches(needle string) bool {
	return strings.Contains(strings.ToLower(s.Title), needle) ||
		strings.Contains(strings.ToLower(s.Address), needle) ||
		strings.Contains(strings.ToLower(s.Description), needle)
}

// rating treats an unrated slot as zero.
func (s *Slot) rating() float64 {
	if s.Rating == nil {
		return 0
	}
	return *s.Rating
}
