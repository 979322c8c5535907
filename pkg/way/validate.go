package way

import (
	"fmt"
	"strings"
)

// Validate checks every submission invariant on the draft: way name and
// description present after trimming, offices chosen for the start and
// end points, complete middle points, non-negative offsets and global
// office exclusivity. It returns a *ValidationError listing every
// failure, or nil when the draft may be submitted.
//
// Exclusivity cannot be violated through SelectOffice, but drafts can
// also be decoded from transport payloads, so the gate re-checks it.
func (d *Draft) Validate() error {
	verr := &ValidationError{}

	if strings.TrimSpace(d.Name) == "" {
		verr.add("way_name", "required")
	}
	if strings.TrimSpace(d.Description) == "" {
		verr.add("way_description", "required")
	}

	if d.Start.OfficeID == 0 {
		verr.add("start_point.office_id", "required")
	}
	if d.End.OfficeID == 0 {
		verr.add("end_point.office_id", "required")
	}
	if d.End.Offset == nil {
		verr.add("end_point.pickup_point_time", "required")
	} else if *d.End.Offset < 0 {
		verr.add("end_point.pickup_point_time", "must be a non-negative integer")
	}

	for i := range d.Middles {
		p := &d.Middles[i]
		prefix := fmt.Sprintf("middle_points[%d]", i)
		if p.OfficeID == 0 {
			verr.add(prefix+".office_id", "required")
		}
		if p.Name == "" {
			verr.add(prefix+".pickup_point_name", "required")
		}
		if p.Offset == nil {
			verr.add(prefix+".pickup_point_time", "required")
		} else if *p.Offset < 0 {
			verr.add(prefix+".pickup_point_time", "must be a non-negative integer")
		}
	}

	seen := make(map[uint]string)
	check := func(officeID uint, field string) {
		if officeID == 0 {
			return
		}
		if prev, dup := seen[officeID]; dup {
			verr.add(field, fmt.Sprintf("office already used by %s", prev))
			return
		}
		seen[officeID] = field
	}
	check(d.Start.OfficeID, "start_point.office_id")
	for i := range d.Middles {
		check(d.Middles[i].OfficeID, fmt.Sprintf("middle_points[%d].office_id", i))
	}
	check(d.End.OfficeID, "end_point.office_id")

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}
