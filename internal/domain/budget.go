package domain

// Mode is the kind of run selected by a RunBudget.
type Mode string

const (
	ModeNoop     Mode = "noop"
	ModeFetch    Mode = "fetch"
	ModeTeardown Mode = "teardown"
)

// RunBudget is the signed record budget of a run. A positive value fetches
// and syncs that many accepted records, zero does nothing, and a negative
// value tears both stores down.
type RunBudget int

// Mode returns the run mode selected by the sign of the budget.
func (b RunBudget) Mode() Mode {
	switch {
	case b > 0:
		return ModeFetch
	case b < 0:
		return ModeTeardown
	default:
		return ModeNoop
	}
}
