package filter

import (
	"fmt"
	"time"

	"github.com/likexephinh-dev/ThuChiPro/internal/apperr"
)

// Selection is the mutable filter state behind the dashboard.
type Selection struct {
	rng        Range
	typ        TypeFilter
	categoryID string
}

func NewSelection(r Range) *Selection {
	return &Selection{rng: NormalizeRange(r), typ: TypeAll, categoryID: CategoryAll}
}

// MaxSelectionDays bounds the selected range. The dashboard renders one
// daily point per day of it.
const MaxSelectionDays = 3660

// SetRange stores r with reversed bounds swapped. Malformed bounds and
// spans longer than MaxSelectionDays are rejected and leave the selection
// unchanged.
func (s *Selection) SetRange(r Range) error {
	if err := ValidateRange(r); err != nil {
		return err
	}

	r = NormalizeRange(r)

	if r.active() {
		start, _ := time.Parse(time.DateOnly, r.Start)
		end, _ := time.Parse(time.DateOnly, r.End)

		if start.AddDate(0, 0, MaxSelectionDays-1).Before(end) {
			return apperr.Invalid("range", fmt.Sprintf("must span at most %d days", MaxSelectionDays))
		}
	}

	s.rng = r

	return nil
}

// SetType changes the type filter and always resets the category filter.
func (s *Selection) SetType(t TypeFilter) error {
	if !t.Valid() {
		return apperr.Invalid("type", fmt.Sprintf("unknown type filter %q", t))
	}

	s.typ = t
	s.categoryID = CategoryAll

	return nil
}

func (s *Selection) SetCategory(id string) {
	if id == "" {
		id = CategoryAll
	}

	s.categoryID = id
}

func (s *Selection) Criteria() Criteria {
	return Criteria{Range: s.rng, Type: s.typ, CategoryID: s.categoryID}
}
