package camera

import "strings"

// ChangeFlags records what changed since the flags were last consumed.
type ChangeFlags uint8

const (
	ChangeOrientation ChangeFlags = 1 << iota
	ChangePosition
	ChangeOrbitDistance
	ChangeProjection

	// ChangeAll is every flag; a new camera starts with it.
	ChangeAll = ChangeOrientation | ChangePosition | ChangeOrbitDistance | ChangeProjection
)

// Has reports whether any bit of o is set in f.
func (f ChangeFlags) Has(o ChangeFlags) bool {
	return f&o != 0
}

func (f ChangeFlags) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	for _, n := range []struct {
		flag ChangeFlags
		name string
	}{
		{ChangeOrientation, "orientation"},
		{ChangePosition, "position"},
		{ChangeOrbitDistance, "orbit-distance"},
		{ChangeProjection, "projection"},
	} {
		if f.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}
