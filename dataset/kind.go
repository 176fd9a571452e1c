package dataset

import (
	"fmt"
	"strings"
)

// Kind identifies the row variant stored in a dataset.
type Kind string

const (
	KindSections Kind = "sections"
	KindRooms    Kind = "rooms"
)

// Kinds lists every supported dataset kind.
var Kinds = []Kind{KindSections, KindRooms}

// ParseKind converts a user supplied kind name, ignoring case and
// surrounding whitespace.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindSections:
		return KindSections, nil
	case KindRooms:
		return KindRooms, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

func (k Kind) String() string {
	return string(k)
}
