// Package xdm implements the XPath/XQuery Data Model: the atomic type
// lattice, sequences, typed nodes, maps, arrays, and sequence-type
// matching (spec.md §3). Grounded on funxy's internal/typesystem
// (types.go/unify.go): the same "precomputed DAG + pair table, no
// simulated inheritance" design (spec.md §9), retargeted from a
// Hindley-Milner unifier onto XDM's much simpler subtype-of lattice.
package xdm

// Kind enumerates every atomic type in the XDM lattice, anyAtomicType
// at the root (spec.md §3).
type Kind int

const (
	AnyAtomicType Kind = iota
	KString
	KBoolean
	KDecimal
	KInteger
	KFloat
	KDouble
	KDate
	KTime
	KDateTime
	KDateTimeStamp
	KDuration
	KYearMonthDuration
	KDayTimeDuration
	KGYear
	KGMonth
	KGDay
	KGMonthDay
	KGYearMonth
	KAnyURI
	KQName
	KBase64Binary
	KHexBinary
	KNotation
	// XSD-derived string subtypes.
	KNormalizedString
	KToken
	KLanguage
	KNMTOKEN
	KName
	KNCName
	KID
	KIDREF
	KENTITY
	// XSD-derived integer subranges.
	KNonPositiveInteger
	KNegativeInteger
	KLong
	KInt
	KShort
	KByte
	KNonNegativeInteger
	KUnsignedLong
	KUnsignedInt
	KUnsignedShort
	KUnsignedByte
	KPositiveInteger
	// Untyped (document/text nodes before schema validation).
	KUntypedAtomic
)

var kindNames = map[Kind]string{
	AnyAtomicType: "xs:anyAtomicType", KString: "xs:string", KBoolean: "xs:boolean",
	KDecimal: "xs:decimal", KInteger: "xs:integer", KFloat: "xs:float", KDouble: "xs:double",
	KDate: "xs:date", KTime: "xs:time", KDateTime: "xs:dateTime", KDateTimeStamp: "xs:dateTimeStamp",
	KDuration: "xs:duration", KYearMonthDuration: "xs:yearMonthDuration", KDayTimeDuration: "xs:dayTimeDuration",
	KGYear: "xs:gYear", KGMonth: "xs:gMonth", KGDay: "xs:gDay", KGMonthDay: "xs:gMonthDay", KGYearMonth: "xs:gYearMonth",
	KAnyURI: "xs:anyURI", KQName: "xs:QName", KBase64Binary: "xs:base64Binary", KHexBinary: "xs:hexBinary",
	KNotation: "xs:NOTATION", KNormalizedString: "xs:normalizedString", KToken: "xs:token",
	KLanguage: "xs:language", KNMTOKEN: "xs:NMTOKEN", KName: "xs:Name", KNCName: "xs:NCName",
	KID: "xs:ID", KIDREF: "xs:IDREF", KENTITY: "xs:ENTITY",
	KNonPositiveInteger: "xs:nonPositiveInteger", KNegativeInteger: "xs:negativeInteger",
	KLong: "xs:long", KInt: "xs:int", KShort: "xs:short", KByte: "xs:byte",
	KNonNegativeInteger: "xs:nonNegativeInteger", KUnsignedLong: "xs:unsignedLong",
	KUnsignedInt: "xs:unsignedInt", KUnsignedShort: "xs:unsignedShort", KUnsignedByte: "xs:unsignedByte",
	KPositiveInteger: "xs:positiveInteger", KUntypedAtomic: "xs:untypedAtomic",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "xs:unknown"
}

// parentOf is the subtype-of lattice: parentOf[k] is k's direct
// supertype. AnyAtomicType has no parent (root).
var parentOf = map[Kind]Kind{
	KString: AnyAtomicType, KBoolean: AnyAtomicType, KDecimal: AnyAtomicType,
	KFloat: AnyAtomicType, KDouble: AnyAtomicType, KDuration: AnyAtomicType,
	KDate: AnyAtomicType, KTime: AnyAtomicType, KDateTime: AnyAtomicType,
	KGYear: AnyAtomicType, KGMonth: AnyAtomicType, KGDay: AnyAtomicType,
	KGMonthDay: AnyAtomicType, KGYearMonth: AnyAtomicType,
	KAnyURI: AnyAtomicType, KQName: AnyAtomicType, KBase64Binary: AnyAtomicType,
	KHexBinary: AnyAtomicType, KNotation: AnyAtomicType, KUntypedAtomic: AnyAtomicType,

	KInteger:           KDecimal,
	KDateTimeStamp:     KDateTime,
	KYearMonthDuration: KDuration,
	KDayTimeDuration:   KDuration,

	KNormalizedString: KString,
	KToken:            KNormalizedString,
	KLanguage:         KToken,
	KNMTOKEN:          KToken,
	KName:             KToken,
	KNCName:           KName,
	KID:               KNCName,
	KIDREF:            KNCName,
	KENTITY:           KNCName,

	KNonPositiveInteger: KInteger,
	KNegativeInteger:    KNonPositiveInteger,
	KLong:               KInteger,
	KInt:                KLong,
	KShort:              KInt,
	KByte:                KShort,
	KNonNegativeInteger: KInteger,
	KUnsignedLong:       KNonNegativeInteger,
	KUnsignedInt:        KUnsignedLong,
	KUnsignedShort:      KUnsignedInt,
	KUnsignedByte:       KUnsignedShort,
	KPositiveInteger:    KNonNegativeInteger,
}

// IsSubtypeOf is the decision procedure used by `instance of` and
// function-argument matching (spec.md §3).
func IsSubtypeOf(sub, sup Kind) bool {
	if sub == sup || sup == AnyAtomicType {
		return true
	}
	k := sub
	for {
		parent, ok := parentOf[k]
		if !ok {
			return false
		}
		if parent == sup {
			return true
		}
		k = parent
	}
}

// KindByName looks up a Kind by its "xs:local" lexical name, used by
// cast/instance-of/treat-as parsing.
func KindByName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}
