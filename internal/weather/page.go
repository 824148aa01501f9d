package weather

// Latest selects the most recent snapshot in Project and Store.Page.
const Latest = -1

// Project returns the snapshot at index together with paging metadata.
// A negative index resolves to the latest entry (or 0 on an empty history).
// An out-of-range index yields nil data, never an error.
func Project(history []Snapshot, index int) PageResult {
	length := len(history)
	if index < 0 {
		index = 0
		if length > 0 {
			index = length - 1
		}
	}

	res := PageResult{Current: index, Length: length}
	if index < length {
		snap := history[index]
		res.Data = &snap
	}
	return res
}
