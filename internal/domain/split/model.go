package split

// Column names of the sample tables, shared with downstream encoders.
const (
	ColUserID     = "user_id"
	ColTargetItem = "target_item_id"
	ColContext    = "padded_context"
	ColLength     = "context_length"
)

// Table is a column-oriented view of one split. Every column has one entry
// per sample row, and every context has exactly the configured window length.
// A zero-value Table is a valid empty split.
type Table struct {
	UserIDs   []int64
	TargetIDs []int64
	Contexts  [][]int64
	Lengths   []int64
}

// Len reports the number of sample rows.
func (t *Table) Len() int {
	return len(t.UserIDs)
}

// Columns exposes the table as a field-name keyed mapping. Tensor, arrow or
// struct encodings layer on top of this.
func (t *Table) Columns() map[string]any {
	return map[string]any{
		ColUserID:     t.UserIDs,
		ColTargetItem: t.TargetIDs,
		ColContext:    t.Contexts,
		ColLength:     t.Lengths,
	}
}

func (t *Table) append(user, target int, padded []int64, length int64) {
	t.UserIDs = append(t.UserIDs, int64(user))
	t.TargetIDs = append(t.TargetIDs, int64(target))
	t.Contexts = append(t.Contexts, padded)
	t.Lengths = append(t.Lengths, length)
}

// Splits bundles the three sample tables.
type Splits struct {
	Train Table
	Valid Table
	Test  Table
}

// Stats describes the canonical dataset as seen by the generator.
type Stats struct {
	// NUsers is the retained user count plus one, reserving a PAD user id
	// that is never emitted.
	NUsers int
	// NItems is the max real item id plus two: ids are 0-based and one slot
	// is reserved for PAD.
	NItems int
	// Interactions is the total entry count across all user sequences.
	Interactions int
}

// PadItem returns the reserved padding sentinel, one past the max real item id.
func (s Stats) PadItem() int64 {
	return int64(s.NItems - 1)
}
