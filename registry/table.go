package registry

import "slices"

// Table is the immutable dispatch table: request and query contracts map to exactly one
// descriptor, event contracts to an ordered list. It is safe for concurrent reads.
type Table struct {
	shapes  []Shape
	entries map[Contract][]*Descriptor
	keys    []Contract
}

func newTable(shapes []Shape) *Table {
	return &Table{
		shapes:  slices.Clone(shapes),
		entries: make(map[Contract][]*Descriptor),
	}
}

func (t *Table) add(d *Descriptor) {
	if _, ok := t.entries[d.contract]; !ok {
		t.keys = append(t.keys, d.contract)
	}

	t.entries[d.contract] = append(t.entries[d.contract], d)
}

func (t *Table) clone() *Table {
	next := &Table{
		shapes:  t.shapes,
		entries: make(map[Contract][]*Descriptor, len(t.entries)),
		keys:    t.keys,
	}

	for k, v := range t.entries {
		next.entries[k] = slices.Clone(v)
	}

	return next
}

// Shapes returns the contract shapes the table was built for.
func (t *Table) Shapes() []Shape { return slices.Clone(t.shapes) }

// Supports reports whether s is one of the table shapes.
func (t *Table) Supports(s Shape) bool { return containsShape(t.shapes, s) }

// Lookup returns the descriptors registered for c, in dispatch order.
func (t *Table) Lookup(c Contract) []*Descriptor { return slices.Clone(t.entries[c]) }

// Contracts returns every registered contract in first-registration order.
func (t *Table) Contracts() []Contract { return slices.Clone(t.keys) }

// Descriptors returns every descriptor grouped by contract.
func (t *Table) Descriptors() []*Descriptor {
	var out []*Descriptor
	for _, k := range t.keys {
		out = append(out, t.entries[k]...)
	}

	return out
}

// Len returns the number of descriptors.
func (t *Table) Len() int {
	n := 0
	for _, v := range t.entries {
		n += len(v)
	}

	return n
}
