// internal/form/password.go
//
// Curbside – Forms subsystem: password-strength classifier.
//
// Context
//   Account and reset pages show a live strength meter next to the password
//   input.  The meter is presentational: submission is gated by the field's
//   rule chain (minimum length plus letters-and-digits), never by the tier
//   computed here.
//
//------------------------------------------------------------------------------

package form

// Tier labels the strength meter arms.
type Tier string

const (
	TierWeak   Tier = "weak"
	TierMedium Tier = "medium"
	TierStrong Tier = "strong"
)

// PasswordStrength reports the three requirement booleans the meter renders
// plus the derived tier.
type PasswordStrength struct {
	MinLength bool // length >= 8
	HasLetter bool
	HasDigit  bool
	Tier      Tier
}

// ClassifyPassword grades a raw password.  Strong requires all three
// requirements and at least 12 characters; medium requires any two; anything
// less is weak.
func ClassifyPassword(pw string) PasswordStrength {
	ps := PasswordStrength{
		MinLength: len(pw) >= 8,
		HasLetter: hasLetter(pw),
		HasDigit:  hasDigit(pw),
	}

	met := 0
	for _, b := range []bool{ps.MinLength, ps.HasLetter, ps.HasDigit} {
		if b {
			met++
		}
	}

	switch {
	case met == 3 && len(pw) >= 12:
		ps.Tier = TierStrong
	case met >= 2:
		ps.Tier = TierMedium
	default:
		ps.Tier = TierWeak
	}
	return ps
}
