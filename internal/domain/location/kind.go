package location

import (
	"fmt"

	"github.com/mirai/inventory-backend/internal/domain/shared"
)

// Kind identifies one of the closed set of storage-location kinds
type Kind string

const (
	KindBoxBin            Kind = "BOX_BIN"
	KindRack              Kind = "RACK"
	KindCabinet           Kind = "CABINET"
	KindSingleClawMachine Kind = "SINGLE_CLAW_MACHINE"
	KindDoubleClawMachine Kind = "DOUBLE_CLAW_MACHINE"
	KindKeychainMachine   Kind = "KEYCHAIN_MACHINE"
	KindFourCornerMachine Kind = "FOUR_CORNER_MACHINE"
	KindPusherMachine     Kind = "PUSHER_MACHINE"
	KindNotAssigned       Kind = "NOT_ASSIGNED"
)

// allKinds is the canonical ordering used by list endpoints and summaries
var allKinds = []Kind{
	KindBoxBin,
	KindRack,
	KindCabinet,
	KindSingleClawMachine,
	KindDoubleClawMachine,
	KindKeychainMachine,
	KindFourCornerMachine,
	KindPusherMachine,
	KindNotAssigned,
}

// AllKinds returns every known kind in canonical order
func AllKinds() []Kind {
	kinds := make([]Kind, len(allKinds))
	copy(kinds, allKinds)
	return kinds
}

// ParseKind converts a raw string to a Kind, failing for anything
// outside the closed set
func ParseKind(raw string) (Kind, error) {
	k := Kind(raw)
	if _, ok := registry[k]; !ok {
		return "", shared.NewDomainError("UNKNOWN_LOCATION_KIND", fmt.Sprintf("Unknown location kind: %s", raw))
	}
	return k, nil
}

// IsValid reports whether the kind belongs to the closed set
func (k Kind) IsValid() bool {
	_, ok := registry[k]
	return ok
}

func (k Kind) String() string {
	return string(k)
}
