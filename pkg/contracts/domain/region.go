package domain

// NoState marks a region whose state is unknown: a town listed before any
// state header, or a housing row with an unmapped state abbreviation.
const NoState = ""

// RegionKey is the (State, RegionName) composite key shared by the town
// list and the housing table.
type RegionKey struct {
	State      string `json:"state"`
	RegionName string `json:"region_name"`
}

// Less orders keys by state, then region name. Keys without a state sort
// after every known state.
func (k RegionKey) Less(other RegionKey) bool {
	if k.State != other.State {
		if k.State == NoState {
			return false
		}
		if other.State == NoState {
			return true
		}
		return k.State < other.State
	}
	return k.RegionName < other.RegionName
}

// HasState reports whether the key carries a known state.
func (k RegionKey) HasState() bool {
	return k.State != NoState
}

// TownEntry is one cleaned row of the university town list.
type TownEntry struct {
	State      string `json:"state"`
	RegionName string `json:"region_name" validate:"required"`
}

// Key returns the composite key of the entry.
func (t TownEntry) Key() RegionKey {
	return RegionKey{State: t.State, RegionName: t.RegionName}
}

// TownSet indexes town entries by composite key.
type TownSet map[RegionKey]struct{}

// NewTownSet builds a TownSet from parsed entries.
func NewTownSet(entries []TownEntry) TownSet {
	set := make(TownSet, len(entries))
	for _, e := range entries {
		set[e.Key()] = struct{}{}
	}
	return set
}

// Contains reports whether key is a university town.
func (s TownSet) Contains(key RegionKey) bool {
	_, ok := s[key]
	return ok
}
