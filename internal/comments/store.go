package comments

// Store is the anchor-keyed comment index built alongside the document
// model. A comment between two items anchors as trailing at the earlier
// item's end byte; comments before the first item of a scope anchor as
// leading at that item's start byte. The anchor choice deliberately
// over-attaches line-separated comments to the preceding item; the
// extractor's reassignment pass corrects that using line adjacency.
type Store struct {
	leading  map[uint32][]Comment
	trailing map[uint32][]Comment
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		leading:  make(map[uint32][]Comment),
		trailing: make(map[uint32][]Comment),
	}
}

// AddLeading anchors c as a leading comment at the given start byte.
func (s *Store) AddLeading(pos uint32, c Comment) {
	s.leading[pos] = append(s.leading[pos], c)
}

// AddTrailing anchors c as a trailing comment at the given end byte.
func (s *Store) AddTrailing(pos uint32, c Comment) {
	s.trailing[pos] = append(s.trailing[pos], c)
}

// AbsorbTrailing drops the trailing list anchored at pos. Used when an
// item's span grows over a following separator: comments between the old
// end and the separator now live inside the item's own text and must not
// also be extracted.
func (s *Store) AbsorbTrailing(pos uint32) {
	delete(s.trailing, pos)
}

// Leading returns the comments anchored at a node's start byte, in source
// order.
func (s *Store) Leading(pos uint32) []Comment {
	return s.leading[pos]
}

// Trailing returns the comments anchored at a node's end byte, in source
// order.
func (s *Store) Trailing(pos uint32) []Comment {
	return s.trailing[pos]
}

// Len returns the total number of anchored comments.
func (s *Store) Len() int {
	n := 0
	for _, cs := range s.leading {
		n += len(cs)
	}
	for _, cs := range s.trailing {
		n += len(cs)
	}
	return n
}
