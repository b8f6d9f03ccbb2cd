package validation

// Status distinguishes the three possible validation outcomes.
type Status int

const (
	StatusValid Status = iota
	StatusInvalid
	StatusUnknown
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	case StatusUnknown:
		return "unknown-validator"
	default:
		return "status(?)"
	}
}

// Result is the outcome of running one or more rules against a value. Kind is
// the failing rule for StatusInvalid and the unrecognised rule for
// StatusUnknown; it is empty when the value is valid.
type Result struct {
	Status Status
	Kind   Kind
}

// Valid reports a passing value.
func Valid() Result {
	return Result{Status: StatusValid}
}

// Invalid reports a value rejected by kind.
func Invalid(kind Kind) Result {
	return Result{Status: StatusInvalid, Kind: kind}
}

// Unknown reports a rule name the validator set does not implement.
func Unknown(kind Kind) Result {
	return Result{Status: StatusUnknown, Kind: kind}
}

// OK reports whether the value passed every rule.
func (r Result) OK() bool {
	return r.Status == StatusValid
}

// Failed returns the failing kind for user input errors.
func (r Result) Failed() (Kind, bool) {
	if r.Status != StatusInvalid {
		return "", false
	}
	return r.Kind, true
}

// Misconfigured returns the unrecognised rule, if any.
func (r Result) Misconfigured() (Kind, bool) {
	if r.Status != StatusUnknown {
		return "", false
	}
	return r.Kind, true
}
