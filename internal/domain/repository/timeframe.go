package repository

// IsValidInterval returns true if iv is a supported candle interval.
func IsValidInterval(iv Interval) bool {
	switch iv {
	case IV15m, IV1h, IV4h, IV1d:
		return true
	default:
		return false
	}
}

// DefaultInterval returns the default candle interval.
func DefaultInterval() Interval { return IV1h }

// NormalizeInterval converts a raw string to a valid interval (or default).
func NormalizeInterval(s string) Interval {
	if s == "" {
		return DefaultInterval()
	}
	iv := Interval(s)
	if IsValidInterval(iv) {
		return iv
	}
	return DefaultInterval()
}
