package location

import (
	"fmt"
	"regexp"

	"github.com/mirai/inventory-backend/internal/domain/shared"
)

// KindSpec describes how one location kind is identified and displayed.
// The rest of the engine dispatches through the registry instead of
// branching on kind.
type KindSpec struct {
	Kind        Kind
	CodeField   string
	CodePattern *regexp.Regexp
	Label       string
}

// registry is the single source of truth for the closed kind set.
// KindNotAssigned is a pseudo-location and carries no code.
var registry = map[Kind]KindSpec{
	KindBoxBin: {
		Kind:        KindBoxBin,
		CodeField:   "binCode",
		CodePattern: regexp.MustCompile(`^B\d+$`),
		Label:       "Box Bin",
	},
	KindRack: {
		Kind:        KindRack,
		CodeField:   "rackCode",
		CodePattern: regexp.MustCompile(`^R\d+$`),
		Label:       "Rack",
	},
	KindCabinet: {
		Kind:        KindCabinet,
		CodeField:   "cabinetCode",
		CodePattern: regexp.MustCompile(`^C\d+$`),
		Label:       "Cabinet",
	},
	KindSingleClawMachine: {
		Kind:        KindSingleClawMachine,
		CodeField:   "machineCode",
		CodePattern: regexp.MustCompile(`^S\d+$`),
		Label:       "Single Claw",
	},
	KindDoubleClawMachine: {
		Kind:        KindDoubleClawMachine,
		CodeField:   "machineCode",
		CodePattern: regexp.MustCompile(`^D\d+$`),
		Label:       "Double Claw",
	},
	KindKeychainMachine: {
		Kind:        KindKeychainMachine,
		CodeField:   "machineCode",
		CodePattern: regexp.MustCompile(`^K\d+$`),
		Label:       "Keychain Machine",
	},
	KindFourCornerMachine: {
		Kind:        KindFourCornerMachine,
		CodeField:   "machineCode",
		CodePattern: regexp.MustCompile(`^M\d+$`),
		Label:       "Four Corner Machine",
	},
	KindPusherMachine: {
		Kind:        KindPusherMachine,
		CodeField:   "machineCode",
		CodePattern: regexp.MustCompile(`^P\d+$`),
		Label:       "Pusher Machine",
	},
	KindNotAssigned: {
		Kind:  KindNotAssigned,
		Label: "Not Assigned",
	},
}

// Spec returns the registry entry for a kind
func Spec(kind Kind) (KindSpec, error) {
	spec, ok := registry[kind]
	if !ok {
		return KindSpec{}, shared.NewDomainError("UNKNOWN_LOCATION_KIND", fmt.Sprintf("Unknown location kind: %s", kind))
	}
	return spec, nil
}

// ValidateCode checks a human-readable code against the kind's pattern.
// KindNotAssigned accepts only an empty code.
func ValidateCode(kind Kind, code string) error {
	spec, err := Spec(kind)
	if err != nil {
		return err
	}
	if spec.CodePattern == nil {
		if code != "" {
			return shared.NewDomainError("INVALID_LOCATION_CODE", fmt.Sprintf("%s locations do not carry a code", spec.Label))
		}
		return nil
	}
	if !spec.CodePattern.MatchString(code) {
		return shared.NewDomainError("INVALID_LOCATION_CODE",
			fmt.Sprintf("Code %q does not match the %s pattern", code, spec.Label))
	}
	return nil
}

// Label returns the display label for a kind, or the raw kind string
// when the kind is unknown
func Label(kind Kind) string {
	if spec, ok := registry[kind]; ok {
		return spec.Label
	}
	return string(kind)
}
