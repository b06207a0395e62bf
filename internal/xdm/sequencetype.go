package xdm

import "github.com/funvibe/xpathlite/internal/adapter"

// OccurrenceIndicator is the cardinality half of a SequenceType
// (spec.md §3).
type OccurrenceIndicator int

const (
	ExactlyOne OccurrenceIndicator = iota
	ZeroOrOne
	OneOrMore
	ZeroOrMore
)

// ItemTypeKind distinguishes the shapes an ItemType can take (spec.md
// §3: item(), a kind test, an atomic type, function(*)/function(T,…)
// as T, map(K,V), array(T)).
type ItemTypeKind int

const (
	AnyItem ItemTypeKind = iota
	KindTestItem
	AtomicItem
	FunctionItem_
	MapItemType
	ArrayItemType
	EmptySequenceItem
)

// ItemType is the non-cardinality half of a SequenceType.
type ItemType struct {
	Kind ItemTypeKind

	// AtomicItem
	AtomicKind Kind

	// KindTestItem
	NodeKind  adapter.Kind
	NodeKindAny bool // node() with no specific kind
	Name      string // "" means wildcard

	// FunctionItem_ / MapItemType / ArrayItemType
	Signature FunctionSignature
	KeyType   Kind // MapItemType
}

// SequenceType is ItemType · OccurrenceIndicator (spec.md §3).
type SequenceType struct {
	Item       ItemType
	Occurrence OccurrenceIndicator
}

var AnyItemType = ItemType{Kind: AnyItem}

// ZeroOrMoreItems is the unconstrained sequence type, used as the
// default when no `as` clause is given.
var ZeroOrMoreItems = SequenceType{Item: AnyItemType, Occurrence: ZeroOrMore}

// MatchesCardinality reports whether seq's length is compatible with
// occ.
func MatchesCardinality(seq Sequence, occ OccurrenceIndicator) bool {
	switch occ {
	case ExactlyOne:
		return len(seq) == 1
	case ZeroOrOne:
		return len(seq) <= 1
	case OneOrMore:
		return len(seq) >= 1
	case ZeroOrMore:
		return true
	}
	return false
}

// MatchesItemType reports whether item conforms to it.
func MatchesItemType(item Item, it ItemType) bool {
	switch it.Kind {
	case AnyItem:
		return true
	case EmptySequenceItem:
		return false // only matches via cardinality (empty sequence), never a single item
	case AtomicItem:
		a, ok := item.(Atomic)
		return ok && IsSubtypeOf(a.Kind, it.AtomicKind)
	case KindTestItem:
		ni, ok := item.(NodeItem)
		if !ok {
			return false
		}
		if !it.NodeKindAny && ni.Node.Kind() != it.NodeKind {
			return false
		}
		if it.Name != "" && it.Name != "*" {
			n := ni.Node.Name()
			if !n.Present || n.Local != it.Name {
				return false
			}
		}
		return true
	case FunctionItem_:
		_, ok := item.(*FunctionItem)
		return ok
	case MapItemType:
		_, ok := item.(*MapItem)
		return ok
	case ArrayItemType:
		_, ok := item.(*ArrayItem)
		return ok
	}
	return false
}

// Matches reports whether seq, as a whole, is an instance of st
// (used by `instance of`, function-argument checking, and
// SequenceType-driven casts, spec.md §3/§4.6/§4.8).
func Matches(seq Sequence, st SequenceType) bool {
	if st.Item.Kind == EmptySequenceItem {
		return len(seq) == 0
	}
	if !MatchesCardinality(seq, st.Occurrence) {
		return false
	}
	for _, it := range seq {
		if !MatchesItemType(it, st.Item) {
			return false
		}
	}
	return true
}
