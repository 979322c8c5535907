package way

// assignedOfficeIDs collects the office ids currently held by any point
// of the draft. Blank points contribute nothing.
func (d *Draft) assignedOfficeIDs() map[uint]struct{} {
	ids := make(map[uint]struct{})
	if d.Start.OfficeID != 0 {
		ids[d.Start.OfficeID] = struct{}{}
	}
	if d.End.OfficeID != 0 {
		ids[d.End.OfficeID] = struct{}{}
	}
	for i := range d.Middles {
		if d.Middles[i].OfficeID != 0 {
			ids[d.Middles[i].OfficeID] = struct{}{}
		}
	}
	return ids
}

// SelectableOffices returns the offices the given slot may choose from:
// the full directory minus every assigned office, plus the office the
// slot itself already holds. Editing an existing selection therefore
// never removes its own option from the list.
func (d *Draft) SelectableOffices(directory []Office, s Slot) ([]Office, error) {
	p, err := d.Point(s)
	if err != nil {
		return nil, err
	}

	assigned := d.assignedOfficeIDs()
	selectable := make([]Office, 0, len(directory))
	for _, office := range directory {
		if _, taken := assigned[office.ID]; taken && office.ID != p.OfficeID {
			continue
		}
		selectable = append(selectable, office)
	}
	return selectable, nil
}

// SelectOffice assigns an office to the slot. The point's display name is
// derived from the office name and its description is cleared for the
// operator to re-enter. Selecting an office held by another point fails
// with ErrOfficeInUse; re-selecting the slot's current office is allowed.
func (d *Draft) SelectOffice(directory []Office, s Slot, officeID uint) error {
	p, err := d.Point(s)
	if err != nil {
		return err
	}

	var office *Office
	for i := range directory {
		if directory[i].ID == officeID {
			office = &directory[i]
			break
		}
	}
	if office == nil {
		return ErrUnknownOffice
	}

	if officeID != p.OfficeID {
		if _, taken := d.assignedOfficeIDs()[officeID]; taken {
			return ErrOfficeInUse
		}
	}

	p.OfficeID = office.ID
	p.Name = office.Name
	p.Description = ""
	return nil
}
