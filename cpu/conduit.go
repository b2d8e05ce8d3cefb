package cpu

import (
	"fmt"
)

// Conduit is the PSCI calling convention used by the guest.
type Conduit uint32

const (
	CONDUIT_NONE = Conduit(0) // PSCI disabled.
	CONDUIT_SMC  = Conduit(1) // Secure monitor call.
	CONDUIT_HVC  = Conduit(2) // Hypervisor call.
)

// Boot conduit selector values, as exposed by the subsystem property.
const (
	SELECTOR_HVC = uint32(0)
	SELECTOR_SMC = uint32(1)
)

// ConduitFromSelector maps the subsystem selector onto a conduit.
// Selector 0 yields HVC(2) and selector 1 yields SMC(1).
func ConduitFromSelector(selector uint32) (conduit Conduit, err error) {
	switch selector {
	case SELECTOR_HVC:
		conduit = CONDUIT_HVC
	case SELECTOR_SMC:
		conduit = CONDUIT_SMC
	default:
		err = fmt.Errorf("%w: %d", ErrConduitSelector, selector)
	}
	return
}

// Valid reports whether the conduit is a known value.
func (conduit Conduit) Valid() bool {
	return conduit <= CONDUIT_HVC
}

func (conduit Conduit) String() string {
	switch conduit {
	case CONDUIT_NONE:
		return "none"
	case CONDUIT_SMC:
		return "smc"
	case CONDUIT_HVC:
		return "hvc"
	}
	return fmt.Sprintf("conduit(%d)", uint32(conduit))
}
