package way

// maxMiddleOffset returns the largest time offset among the middle
// points, or 0 when there are none. Blank offsets count as 0, matching
// the seed rule for new points.
func (d *Draft) maxMiddleOffset() int {
	max := 0
	for i := range d.Middles {
		if off := d.Middles[i].Offset; off != nil && *off > max {
			max = *off
		}
	}
	return max
}

// AddMiddlePoint appends a new blank middle point and returns its index.
//
// The call is refused with ErrIncompleteMiddle while any existing middle
// point is missing its office, name or time offset, so half-filled rows
// cannot pile up. The new point's offset seeds from the current maximum
// middle offset and the end point's offset is resynced to that same
// maximum. The resync is a default the operator may overwrite afterwards.
func (d *Draft) AddMiddlePoint() (int, error) {
	for i := range d.Middles {
		if !d.Middles[i].Complete() {
			return 0, ErrIncompleteMiddle
		}
	}

	seed := d.maxMiddleOffset()
	d.Middles = append(d.Middles, Point{Offset: intPtr(seed)})
	d.End.Offset = intPtr(seed)
	return len(d.Middles) - 1, nil
}

// RemoveMiddlePoint deletes the middle point at the given index and
// recomputes the end point's offset default from the remaining middles.
func (d *Draft) RemoveMiddlePoint(index int) error {
	if index < 0 || index >= len(d.Middles) {
		return ErrNoSuchPoint
	}

	d.Middles = append(d.Middles[:index], d.Middles[index+1:]...)
	d.End.Offset = intPtr(d.maxMiddleOffset())
	return nil
}

// SetOffset sets the time offset of a middle or end point. The start
// point's offset is fixed at zero and cannot be changed.
func (d *Draft) SetOffset(s Slot, minutes int) error {
	if s.Kind == KindStart {
		return ErrStartOffsetFixed
	}
	if minutes < 0 {
		return ErrNegativeOffset
	}

	p, err := d.Point(s)
	if err != nil {
		return err
	}
	p.Offset = intPtr(minutes)
	return nil
}

// SetPointDescription sets the free-text description of a point.
func (d *Draft) SetPointDescription(s Slot, text string) error {
	p, err := d.Point(s)
	if err != nil {
		return err
	}
	p.Description = text
	return nil
}
