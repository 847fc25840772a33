package triage

// The functions in this file are the pure transitions behind Store.
// None of them mutate their input; a changed photo list is always a
// fresh slice so an old View stays valid.

// SetStatus moves every photo in ids to status. Highlight is untouched.
func SetStatus(photos []Photo, ids []string, status ReviewStatus) []Photo {
	want := idSet(ids)
	out := make([]Photo, len(photos))
	for i, p := range photos {
		if _, ok := want[p.ID]; ok {
			p.Status = status
		}
		out[i] = p
	}
	return out
}

// SetHighlight sets the highlight bit on every photo in ids.
func SetHighlight(photos []Photo, ids []string, value bool) []Photo {
	want := idSet(ids)
	out := make([]Photo, len(photos))
	for i, p := range photos {
		if _, ok := want[p.ID]; ok {
			p.IsHighlight = value
		}
		out[i] = p
	}
	return out
}

// ToggleHighlight flips the highlight bit of one photo and reports the
// resulting value. ok is false when id is not in photos.
func ToggleHighlight(photos []Photo, id string) (out []Photo, value bool, ok bool) {
	out = make([]Photo, len(photos))
	copy(out, photos)
	for i := range out {
		if out[i].ID == id {
			out[i].IsHighlight = !out[i].IsHighlight
			return out, out[i].IsHighlight, true
		}
	}
	return photos, false, false
}

// Filter returns the photos matching mode in their original order.
// FilterAll returns the list unchanged.
func Filter(photos []Photo, mode FilterMode) []Photo {
	if mode == FilterAll || mode == "" {
		return photos
	}
	out := make([]Photo, 0, len(photos))
	for _, p := range photos {
		if mode.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// Stats are derived counts. Selected + Untouched + Rejected == Total.
type Stats struct {
	Total       int `json:"total"`
	Selected    int `json:"selected"`
	Rejected    int `json:"rejected"`
	Untouched   int `json:"untouched"`
	Highlighted int `json:"highlighted"`
	Checked     int `json:"checked"`
}

func ComputeStats(photos []Photo, checked int) Stats {
	st := Stats{Total: len(photos), Checked: checked}
	for _, p := range photos {
		switch p.Status {
		case StatusSelected:
			st.Selected++
		case StatusRejected:
			st.Rejected++
		default:
			st.Untouched++
		}
		if p.IsHighlight {
			st.Highlighted++
		}
	}
	return st
}

// CheckRange returns the ids between from and to inclusive, in the
// order of order, whichever of the two comes first. It returns nil when
// either end is missing from order.
func CheckRange(order []string, from, to string) []string {
	start, end := -1, -1
	for i, id := range order {
		if id == from {
			start = i
		}
		if id == to {
			end = i
		}
	}
	if start < 0 || end < 0 {
		return nil
	}
	if start > end {
		start, end = end, start
	}
	out := make([]string, end-start+1)
	copy(out, order[start:end+1])
	return out
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func photoIDs(photos []Photo) []string {
	ids := make([]string, len(photos))
	for i, p := range photos {
		ids[i] = p.ID
	}
	return ids
}
