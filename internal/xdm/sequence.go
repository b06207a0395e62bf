package xdm

import (
	"fmt"

	"github.com/funvibe/xpathlite/internal/adapter"
)

// ItemCategory distinguishes the four shapes an Item can take (spec.md
// §3: "a single atomic" / "a single node", plus 3.1 maps/arrays and
// function items, §4.6/§4.8).
type ItemCategory int

const (
	CategoryNode ItemCategory = iota
	CategoryAtomic
	CategoryFunction
	CategoryMap
	CategoryArray
)

// Item is one element of a Sequence: a node, an atomic value, a
// function item, a map, or an array.
type Item interface {
	ItemKind() ItemCategory
}

// Sequence is a flat, ordered, heterogeneous list of items (spec.md
// §3). The empty sequence is represented by a nil/zero-length slice;
// it is distinct from a one-item sequence holding an empty string.
type Sequence []Item

// NodeItem wraps an adapter.Node as a Sequence Item.
type NodeItem struct {
	Node adapter.Node
}

func (NodeItem) ItemKind() ItemCategory { return CategoryNode }

// WrapNodes lifts a []adapter.Node into a Sequence.
func WrapNodes(nodes []adapter.Node) Sequence {
	seq := make(Sequence, len(nodes))
	for i, n := range nodes {
		seq[i] = NodeItem{Node: n}
	}
	return seq
}

// Singleton builds a one-item sequence.
func Singleton(it Item) Sequence { return Sequence{it} }

// IsEmpty reports whether seq has no items.
func (seq Sequence) IsEmpty() bool { return len(seq) == 0 }

// AllNodes reports whether every item in seq is a node (used by path
// evaluation, spec.md §4.3: "the left operand's result must be a node
// sequence, else XPTY0019").
func (seq Sequence) AllNodes() bool {
	for _, it := range seq {
		if it.ItemKind() != CategoryNode {
			return false
		}
	}
	return true
}

// Nodes extracts the adapter.Node values from seq, assuming AllNodes.
func (seq Sequence) Nodes() []adapter.Node {
	out := make([]adapter.Node, 0, len(seq))
	for _, it := range seq {
		if ni, ok := it.(NodeItem); ok {
			out = append(out, ni.Node)
		}
	}
	return out
}

// FunctionSignature describes a function item's declared parameter
// and result types for instance-of/castable checks (spec.md §3's
// function(*) / function(T,...) as T item type).
type FunctionSignature struct {
	ParamTypes []SequenceType
	ResultType *SequenceType
	AnyArity   bool // true for the function(*) top type
}

// FunctionItem is a first-class function value (spec.md §4.6 Higher-
// order functions; §4.5 inline function expressions produce these).
type FunctionItem struct {
	Name string
	Sig  FunctionSignature
	Call func(args []Sequence) (Sequence, error)
}

func (*FunctionItem) ItemKind() ItemCategory { return CategoryFunction }

func (f *FunctionItem) Arity() int { return len(f.Sig.ParamTypes) }

// MapEntry is one key/value pair of a MapItem, kept in insertion order
// for deterministic fn:map-for-each traversal.
type MapEntry struct {
	Key   Atomic
	Value Sequence
}

// MapItem is an immutable atomic-keyed map (spec.md §3: "maps are
// immutable key→value with atomic keys distinguished under the eq of
// their common type").
type MapItem struct {
	entries []MapEntry
}

func (*MapItem) ItemKind() ItemCategory { return CategoryMap }

func NewMap() *MapItem { return &MapItem{} }

// Put returns a NEW map with key bound to value, replacing any
// existing entry whose key is `eq` to key (maps are immutable).
func (m *MapItem) Put(key Atomic, value Sequence) *MapItem {
	out := &MapItem{entries: make([]MapEntry, 0, len(m.entries)+1)}
	replaced := false
	for _, e := range m.entries {
		if e.Key.Equal(key) {
			out.entries = append(out.entries, MapEntry{Key: key, Value: value})
			replaced = true
			continue
		}
		out.entries = append(out.entries, e)
	}
	if !replaced {
		out.entries = append(out.entries, MapEntry{Key: key, Value: value})
	}
	return out
}

// Get returns the value bound to key and whether it was present.
func (m *MapItem) Get(key Atomic) (Sequence, bool) {
	for _, e := range m.entries {
		if e.Key.Equal(key) {
			return e.Value, true
		}
	}
	return nil, false
}

func (m *MapItem) Size() int { return len(m.entries) }

func (m *MapItem) Entries() []MapEntry { return m.entries }

// DuplicateKeyPolicy selects the behaviour of map:merge on colliding
// keys (spec.md §4.6).
type DuplicateKeyPolicy int

const (
	UseFirst DuplicateKeyPolicy = iota
	UseLast
	Combine
	Reject
	UseAny
)

// Merge combines maps according to policy (map:merge, spec.md §4.6).
func Merge(maps []*MapItem, policy DuplicateKeyPolicy) (*MapItem, error) {
	out := NewMap()
	for _, m := range maps {
		for _, e := range m.Entries() {
			existing, ok := out.Get(e.Key)
			if !ok {
				out = out.Put(e.Key, e.Value)
				continue
			}
			switch policy {
			case UseFirst, UseAny:
				// keep existing
			case UseLast:
				out = out.Put(e.Key, e.Value)
			case Combine:
				combined := append(append(Sequence{}, existing...), e.Value...)
				out = out.Put(e.Key, combined)
			case Reject:
				return nil, fmt.Errorf("map:merge: duplicate key %s", e.Key.String())
			}
		}
	}
	return out, nil
}

// ArrayItem is a 1-indexed finite sequence of (possibly sequence-
// valued) items (spec.md §3: "arrays... items may themselves be
// sequences, unlike top-level flattening").
type ArrayItem struct {
	items []Sequence
}

func (*ArrayItem) ItemKind() ItemCategory { return CategoryArray }

func NewArray(items ...Sequence) *ArrayItem { return &ArrayItem{items: items} }

func (a *ArrayItem) Len() int { return len(a.items) }

// Get returns the member at 1-based position pos.
func (a *ArrayItem) Get(pos int) (Sequence, bool) {
	if pos < 1 || pos > len(a.items) {
		return nil, false
	}
	return a.items[pos-1], true
}

func (a *ArrayItem) Members() []Sequence { return a.items }

// Flatten returns all array members concatenated (array:flatten).
func (a *ArrayItem) Flatten() Sequence {
	var out Sequence
	for _, m := range a.items {
		out = append(out, m...)
	}
	return out
}

func (a *ArrayItem) Append(item Sequence) *ArrayItem {
	out := &ArrayItem{items: make([]Sequence, len(a.items)+1)}
	copy(out.items, a.items)
	out.items[len(a.items)] = item
	return out
}
