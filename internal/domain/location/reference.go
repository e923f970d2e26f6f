package location

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Ref points at one concrete storage location. Location metadata is
// owned elsewhere; the ledger only ever needs (kind, id).
type Ref struct {
	Kind Kind      `json:"kind"`
	ID   uuid.UUID `json:"id"`
}

// NewRef builds a validated location reference
func NewRef(kind Kind, id uuid.UUID) (Ref, error) {
	parsed, err := ParseKind(string(kind))
	if err != nil {
		return Ref{}, err
	}
	return Ref{Kind: parsed, ID: id}, nil
}

// Equal reports whether two references point at the same location
func (r Ref) Equal(other Ref) bool {
	return r.Kind == other.Kind && r.ID == other.ID
}

// Less imposes a total order over references so that transfers can
// lock both sides in a deterministic order and avoid deadlocks.
func (r Ref) Less(other Ref) bool {
	if r.Kind != other.Kind {
		return r.Kind < other.Kind
	}
	return strings.Compare(r.ID.String(), other.ID.String()) < 0
}

func (r Ref) String() string {
	return fmt.Sprintf("%s/%s", r.Kind, r.ID)
}
