package auth

// AccessLevel names a member's privilege within an organization. The set is
// closed; levels are also persisted as role reference data.
type AccessLevel string

const (
	AccessReadOnly AccessLevel = "read-only"
	AccessCreator  AccessLevel = "creator"
)

// accessRanks is the fixed privilege ordering. The zero rank is reserved
// for unknown level names, which therefore never satisfy any requirement.
var accessRanks = map[AccessLevel]int{
	AccessReadOnly: 1,
	AccessCreator:  2,
}

// Levels returns every known access level, lowest rank first.
func Levels() []AccessLevel {
	return []AccessLevel{AccessReadOnly, AccessCreator}
}

// Rank returns the privilege rank of the level, or 0 for unknown names.
func (l AccessLevel) Rank() int {
	return accessRanks[l]
}

// Known reports whether the level is part of the closed set.
func (l AccessLevel) Known() bool {
	return l.Rank() > 0
}

// Allows reports whether a member holding this level satisfies the required
// level. An unknown required level is never satisfied.
func (l AccessLevel) Allows(required AccessLevel) bool {
	r := required.Rank()
	if r == 0 {
		return false
	}
	return l.Rank() >= r
}
