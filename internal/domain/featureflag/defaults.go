package featureflag

// DefaultFlags returns the known flags with their startup values.
//
// Flags are fail-open: a missing row reads as enabled, and startup seeds each
// missing key as on.
func DefaultFlags() []FeatureFlag {
	return []FeatureFlag{
		{Key: KeyRegistration, Value: ValueOn},
		{Key: KeyEdit, Value: ValueOn},
	}
}

// IsKnown reports whether key names one of the default flags.
func IsKnown(key string) bool {
	for _, f := range DefaultFlags() {
		if f.Key == key {
			return true
		}
	}
	return false
}
