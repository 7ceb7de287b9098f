package taskquery

import (
	"strings"
	"time"

	"github.com/phrazzld/taskflow-api/internal/domain"
)

// Default pagination values.
const (
	DefaultSkip  = 0
	DefaultLimit = 100
	MaxLimit     = 1000
)

// SortKey selects the field tasks are ordered by.
type SortKey string

// Supported sort keys.
const (
	SortByID       SortKey = "id"
	SortByPriority SortKey = "priority"
	SortByEntry    SortKey = "entry"
)

// ParseSortKey returns the sort key named by s. Unknown keys fall back to SortByID.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortByID, SortByPriority, SortByEntry:
		return k
	}
	return SortByID
}

// Order is the sort direction.
type Order string

// Supported directions.
const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// ParseOrder returns the direction named by s. Anything but "desc" is ascending.
func ParseOrder(s string) Order {
	if Order(strings.ToLower(strings.TrimSpace(s))) == Desc {
		return Desc
	}
	return Asc
}

// Params are the inputs of List.
type Params struct {
	Skip      int
	Limit     int
	Order     Order
	Sort      SortKey
	Priority  *domain.Priority
	DueBefore *time.Time
	DueAfter  *time.Time
}

// DefaultParams returns the parameters used when a caller supplies none.
func DefaultParams() Params {
	return Params{
		Skip:  DefaultSkip,
		Limit: DefaultLimit,
		Order: Asc,
		Sort:  SortByID,
	}
}

// Normalize fills unset enums and a zero limit with their defaults.
func (p Params) Normalize() Params {
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	p.Order = ParseOrder(string(p.Order))
	p.Sort = ParseSortKey(string(p.Sort))
	return p
}

// Validate rejects out-of-range pagination and an unknown priority filter.
func (p Params) Validate() error {
	if p.Skip < 0 {
		return domain.NewValidationError("skip", "must be zero or greater", nil)
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		return domain.NewValidationError("limit", "must be between 1 and 1000", nil)
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return domain.NewValidationError("priority", "must be one of high, medium, low", domain.ErrInvalidPriority)
	}
	return nil
}
