package graphson

// An Entry is one key/value pair of the logical sequence underlying the
// physical map encodings.
type Entry struct {
	Key   *GValue
	Value *GValue
}

// Entries reconciles the physical map encodings into one ordered key/value
// sequence. An object body yields one entry per field, in field order, with
// string key nodes. An array body is read as flattened alternating keys and
// values and fails with an OddLengthError if its length is odd. The shape is
// selected from the body of v alone. Duplicate keys are preserved in
// sequence order.
func Entries(v *GValue) ([]Entry, error) {
	switch v.tp {
	case ObjectBody:
		o := v.v.(*Object)
		entries := make([]Entry, 0, o.Len())
		for _, f := range o.fields {
			entries = append(entries, Entry{Key: NewString(f.Name), Value: f.Value})
		}
		return entries, nil
	case ArrayBody:
		elems := v.v.([]*GValue)
		if len(elems)%2 != 0 {
			return nil, &OddLengthError{Length: len(elems)}
		}
		entries := make([]Entry, 0, len(elems)/2)
		for i := 0; i < len(elems); i += 2 {
			entries = append(entries, Entry{Key: elems[i], Value: elems[i+1]})
		}
		return entries, nil
	}

	return nil, &ShapeMismatchError{Expected: "object or array", Actual: v.tp}
}
