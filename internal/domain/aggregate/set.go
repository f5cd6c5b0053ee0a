package aggregate

// idSet is a set of record ids. Only its size leaves the package.
type idSet map[uint]struct{}

func (s idSet) add(id uint) { s[id] = struct{}{} }

// Len returns the number of distinct ids.
func (s idSet) Len() int { return len(s) }
