package ir

// Category is one record of the categories source: an identifier and the
// packed label string, e.g. "related-1;request-0;offer-0".
type Category struct {
	ID     Value
	Packed string
}

// LabelSet is the ordered list of label names decoded from the packed
// category column. It is fixed once from the first category record and every
// other record is decoded against it.
type LabelSet []string

// Index returns the position of label, or -1.
func (ls LabelSet) Index(label string) int {
	for i, l := range ls {
		if l == label {
			return i
		}
	}
	return -1
}

// Columns returns one KindInt column per label, in label order.
func (ls LabelSet) Columns() []Column {
	cols := make([]Column, len(ls))
	for i, l := range ls {
		cols[i] = Column{Name: l, Kind: KindInt}
	}
	return cols
}

// Decoded holds the label values of one category record, keyed by label.
// It only exists during decoding; the cleaned table stores values as columns.
type Decoded map[string]int64
