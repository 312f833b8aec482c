package booking

// Cost derives the rental charge from a daily rate and a day count. Rates
// are expressed in the currency's minor unit (cents), so the multiplication
// is exact; any rounding from a decimal display rate is the caller's
// choice, made before calling in.
func Cost(rateCents int64, days int) (int64, error) {
	if days <= 0 || rateCents < 0 {
		return 0, ErrInvalidDuration
	}
	return rateCents * int64(days), nil
}
