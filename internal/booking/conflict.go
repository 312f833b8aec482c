package booking

// Conflicts decides whether a candidate interval may coexist with the
// existing claims of a vehicle. Only intervals in a blocking status
// participate; the kinds share one exclusion zone, so a confirmed
// reservation blocks a maintenance window and vice versa.
//
// The predicate is order-independent: the returned interval is the first
// overlap found, for diagnostics only, and carries no ordering contract.
func Conflicts(candidate Interval, existing []Interval) (Interval, bool) {
	for _, iv := range existing {
		if !iv.Blocking() {
			continue
		}
		if candidate.Overlaps(iv) {
			return iv, true
		}
	}
	return Interval{}, false
}
