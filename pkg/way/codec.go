package way

import (
	"fmt"
	"strings"
)

// TransportPoint is the wire form of a pickup point inside the flat
// list the repository exchanges.
type TransportPoint struct {
	OfficeID    uint   `json:"office_id"`
	Name        string `json:"pickup_point_name"`
	Time        int    `json:"pickup_point_time"`
	Kind        Kind   `json:"pickup_point_kind"`
	Description string `json:"pickup_point_description"`
}

// Transport is the wire form of a whole way: way-level fields plus the
// ordered flat pickup-point list (start first, middles in order, end
// last). WayID is nil for a way that has not been created yet.
type Transport struct {
	WayID       *uint            `json:"way_id"`
	Name        string           `json:"way_name"`
	Description string           `json:"way_description"`
	Points      []TransportPoint `json:"list_pickup_point"`
}

// Encode serializes the draft into the flat transport format. The start
// point is emitted first with its offset forced to 0 regardless of form
// state, middle points follow in their current order, the end point is
// last. Way name and description are trimmed. Blank offsets encode as 0.
func (d *Draft) Encode() *Transport {
	points := make([]TransportPoint, 0, len(d.Middles)+2)

	points = append(points, TransportPoint{
		OfficeID:    d.Start.OfficeID,
		Name:        d.Start.Name,
		Time:        0,
		Kind:        KindStart,
		Description: d.Start.Description,
	})
	for i := range d.Middles {
		p := &d.Middles[i]
		points = append(points, TransportPoint{
			OfficeID:    p.OfficeID,
			Name:        p.Name,
			Time:        offsetOrZero(p.Offset),
			Kind:        KindMiddle,
			Description: p.Description,
		})
	}
	points = append(points, TransportPoint{
		OfficeID:    d.End.OfficeID,
		Name:        d.End.Name,
		Time:        offsetOrZero(d.End.Offset),
		Kind:        KindEnd,
		Description: d.End.Description,
	})

	return &Transport{
		WayID:       d.WayID,
		Name:        strings.TrimSpace(d.Name),
		Description: strings.TrimSpace(d.Description),
		Points:      points,
	}
}

// Decode reconstructs a draft from the flat transport format,
// partitioning the pickup points by kind. Middle points keep their
// source order. The start point's offset is forced to 0 no matter what
// the payload carried. A payload without exactly one start and one end
// point is rejected.
func Decode(t *Transport) (*Draft, error) {
	d := &Draft{
		WayID:       t.WayID,
		Name:        t.Name,
		Description: t.Description,
	}

	var haveStart, haveEnd bool
	for i := range t.Points {
		tp := &t.Points[i]
		switch tp.Kind {
		case KindStart:
			if haveStart {
				return nil, fmt.Errorf("way: decode: duplicate start point")
			}
			haveStart = true
			d.Start = Point{
				OfficeID:    tp.OfficeID,
				Name:        tp.Name,
				Offset:      intPtr(0),
				Description: tp.Description,
			}
		case KindEnd:
			if haveEnd {
				return nil, fmt.Errorf("way: decode: duplicate end point")
			}
			haveEnd = true
			d.End = Point{
				OfficeID:    tp.OfficeID,
				Name:        tp.Name,
				Offset:      intPtr(tp.Time),
				Description: tp.Description,
			}
		case KindMiddle:
			d.Middles = append(d.Middles, Point{
				OfficeID:    tp.OfficeID,
				Name:        tp.Name,
				Offset:      intPtr(tp.Time),
				Description: tp.Description,
			})
		default:
			return nil, fmt.Errorf("way: decode: unknown pickup point kind %d", tp.Kind)
		}
	}

	if !haveStart {
		return nil, fmt.Errorf("way: decode: missing start point")
	}
	if !haveEnd {
		return nil, fmt.Errorf("way: decode: missing end point")
	}
	return d, nil
}

func offsetOrZero(off *int) int {
	if off == nil {
		return 0
	}
	return *off
}
