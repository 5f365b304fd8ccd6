package featureflag

import "errors"

// Stable flag keys referenced by handlers and templates.
const (
	KeyRegistration = "allow"
	KeyEdit         = "allow_edit"
)

// Stored values. Anything other than ValueOn reads as disabled.
const (
	ValueOn  = "1"
	ValueOff = "0"
)

// FeatureFlag is a named on/off switch persisted as a key/value row.
type FeatureFlag struct {
	Key   string
	Value string
}

var (
	ErrMissingKey = errors.New("feature flag key is required")
	ErrUnknownKey = errors.New("unknown feature flag key")
)

// Validate checks required fields for a FeatureFlag.
// PRE: FeatureFlag struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (f *FeatureFlag) Validate() error {
	if f.Key == "" {
		return ErrMissingKey
	}
	if !IsKnown(f.Key) {
		return ErrUnknownKey
	}
	return nil
}

// Enabled reports whether the stored value means "on".
// INVARIANT: f is not mutated
func (f FeatureFlag) Enabled() bool {
	return f.Value == ValueOn
}

// Toggled returns a copy with the opposite value.
// A value that is not ValueOn counts as off, so it toggles to on.
func (f FeatureFlag) Toggled() FeatureFlag {
	if f.Enabled() {
		f.Value = ValueOff
	} else {
		f.Value = ValueOn
	}
	return f
}
