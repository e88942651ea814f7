package sheets

// Row is a sparse, insertion-ordered mapping of column name to cell value,
// representing one logical record destined for one spreadsheet row.
//
// Three states matter to the merge logic and are kept distinct: a key that
// was never set, a key set to nil (explicit null), and a key set to a
// value. Insertion order is preserved so the Append fallback used when the
// sheet has no header row is deterministic.
type Row struct {
	keys []string
	vals map[string]any
}

// NewRow creates an empty Row.
func NewRow() *Row {
	return &Row{vals: make(map[string]any)}
}

// Set stores a value under key, keeping first-insertion order. Setting an
// existing key overwrites the value without changing its position. Returns
// the row for chaining.
func (r *Row) Set(key string, value any) *Row {
	if _, ok := r.vals[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.vals[key] = value
	return r
}

// Get returns the value stored under key and whether the key was set at
// all. A present key may still hold nil (explicit null).
func (r *Row) Get(key string) (any, bool) {
	v, ok := r.vals[key]
	return v, ok
}

// Keys returns the row's column names in insertion order.
func (r *Row) Keys() []string {
	return r.keys
}

// Len returns the number of keys set on the row.
func (r *Row) Len() int {
	return len(r.keys)
}
