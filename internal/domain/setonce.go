package domain

import "time"

// SetOnce assigns value to the field only when it is still nil and reports
// whether the write happened. Milestone timestamps (FirstResponseAt,
// ResolvedAt, ClosedAt) must transition from nil to a value exactly once;
// every write path goes through this guard so the invariant lives in one
// place.
func SetOnce(field **time.Time, value time.Time) bool {
	if *field != nil {
		return false
	}
	v := value
	*field = &v
	return true
}
