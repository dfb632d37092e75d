package model

// Member is one extractor's record inside an aligned group.
type Member struct {
	Extractor string
	// Position is the record's index in the extractor's own list.
	Position int
	Record   Record
}

// AlignedGroup holds records believed to denote the same citation. Each
// extractor contributes at most one member; members are kept in extractor
// registration order.
type AlignedGroup []Member

// Member returns the group member contributed by extractor, if any.
func (g AlignedGroup) Member(extractor string) (Member, bool) {
	for _, m := range g {
		if m.Extractor == extractor {
			return m, true
		}
	}
	return Member{}, false
}

// BeliefMap maps a field to the plausibility of its value, in [0, 1].
type BeliefMap map[Field]float64
