package vault

import "fmt"

// Phase is the stage of the vault lifecycle.
type Phase uint8

const (
	// PhaseDeposit accepts deposits.
	PhaseDeposit Phase = iota
	// PhaseLocked accepts neither deposits nor withdrawals.
	PhaseLocked
	// PhaseWithdraw accepts withdrawals.
	PhaseWithdraw
)

func (p Phase) String() string {
	switch p {
	case PhaseDeposit:
		return "deposit"
	case PhaseLocked:
		return "locked"
	case PhaseWithdraw:
		return "withdraw"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Next returns the phase that follows p. The cycle has no terminal phase.
func (p Phase) Next() Phase {
	return (p + 1) % 3
}

// MarshalText renders the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a phase name.
func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "deposit":
		*p = PhaseDeposit
	case "locked":
		*p = PhaseLocked
	case "withdraw":
		*p = PhaseWithdraw
	default:
		return fmt.Errorf("unknown phase %q", text)
	}
	return nil
}
