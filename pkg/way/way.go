// Package way implements the route-path ("way") aggregate and the draft
// editing rules behind the back-office way editor: office exclusivity,
// time-offset bookkeeping and the flat pickup-point transport format.
package way

// Kind identifies the role of a pickup point within a way. The numeric
// values are the transport encoding and must not be reordered.
type Kind int

const (
	KindStart  Kind = -1
	KindMiddle Kind = 0
	KindEnd    Kind = 1
)

// String returns the human-readable role name.
func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindMiddle:
		return "middle"
	case KindEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Office is the editor-local view of a physical office. It is reference
// data owned by the office directory; the editor never mutates it.
type Office struct {
	ID   uint   `json:"office_id"`
	Name string `json:"office_name"`
}

// Point is one stop along a way.
//
// OfficeID is zero until an office has been chosen. Offset is nil until
// the operator has entered a value; the start point's offset is pinned
// to zero by the draft and never nil.
type Point struct {
	OfficeID    uint   `json:"office_id"`
	Name        string `json:"pickup_point_name"`
	Offset      *int   `json:"pickup_point_time"`
	Description string `json:"pickup_point_description"`
}

// Complete reports whether the point has an office, a name and an offset.
func (p *Point) Complete() bool {
	return p.OfficeID != 0 && p.Name != "" && p.Offset != nil
}

// Draft is the editor-owned working copy of a way: exactly one start
// point, zero or more middle points and exactly one end point.
//
// Middle-point offsets are independent values. Only the documented
// defaults are enforced: a new middle point seeds from the current
// maximum middle offset, and the end point's offset is resynced to that
// maximum whenever a middle point is added or removed. No ordering
// between middle points is imposed.
type Draft struct {
	WayID       *uint  `json:"way_id"`
	Name        string `json:"way_name"`
	Description string `json:"way_description"`

	Start   Point   `json:"start_point"`
	Middles []Point `json:"middle_points"`
	End     Point   `json:"end_point"`
}

// NewDraft returns an empty draft with the start offset pinned to zero.
func NewDraft() *Draft {
	d := &Draft{}
	d.Start.Offset = intPtr(0)
	return d
}

// Clone returns a deep copy of the draft. Offsets are copied, not
// shared, so mutating the clone never touches the original.
func (d *Draft) Clone() *Draft {
	c := *d
	if d.WayID != nil {
		id := *d.WayID
		c.WayID = &id
	}
	c.Start = clonePoint(d.Start)
	c.End = clonePoint(d.End)
	c.Middles = make([]Point, len(d.Middles))
	for i := range d.Middles {
		c.Middles[i] = clonePoint(d.Middles[i])
	}
	return &c
}

func clonePoint(p Point) Point {
	if p.Offset != nil {
		p.Offset = intPtr(*p.Offset)
	}
	return p
}

// SetInfo sets the way-level name and description.
func (d *Draft) SetInfo(name, description string) {
	d.Name = name
	d.Description = description
}

// Slot addresses one point of a draft. Index is only meaningful for
// middle points.
type Slot struct {
	Kind  Kind
	Index int
}

// StartSlot addresses the start point.
func StartSlot() Slot { return Slot{Kind: KindStart} }

// MiddleSlot addresses the middle point at the given position.
func MiddleSlot(index int) Slot { return Slot{Kind: KindMiddle, Index: index} }

// EndSlot addresses the end point.
func EndSlot() Slot { return Slot{Kind: KindEnd} }

// Point returns the point addressed by the slot.
func (d *Draft) Point(s Slot) (*Point, error) {
	switch s.Kind {
	case KindStart:
		return &d.Start, nil
	case KindEnd:
		return &d.End, nil
	case KindMiddle:
		if s.Index < 0 || s.Index >= len(d.Middles) {
			return nil, ErrNoSuchPoint
		}
		return &d.Middles[s.Index], nil
	default:
		return nil, ErrNoSuchPoint
	}
}

func intPtr(v int) *int { return &v }
