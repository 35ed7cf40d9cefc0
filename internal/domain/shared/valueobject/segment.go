package valueobject

// Segment is the client pricing tier. Catalogue price lists are keyed by
// segment and every client belongs to exactly one.
type Segment string

const (
	SegmentRetail        Segment = "DETAIL"
	SegmentSemiWholesale Segment = "DEMI_GROS"
	SegmentWholesale     Segment = "GROS"
)

// IsValid checks if the segment is one of the three tiers
func (s Segment) IsValid() bool {
	switch s {
	case SegmentRetail, SegmentSemiWholesale, SegmentWholesale:
		return true
	}
	return false
}

// String returns the string representation of the segment
func (s Segment) String() string {
	return string(s)
}
