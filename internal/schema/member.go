package schema

import "github.com/maciejwalesiak/easyfix/internal/dictionary"

// MemberKind discriminates the closed set of resolved member shapes.
// Every consumer switching over it must handle all four kinds.
type MemberKind int

const (
	// KindSimple is a single scalar field.
	KindSimple MemberKind = iota
	// KindEnumeration is a scalar field backed by a closed value set.
	KindEnumeration
	// KindLengthData is a Length field paired with the Data or XmlData
	// field that immediately follows it; the pair is encoded and
	// decoded together.
	KindLengthData
	// KindGroup is a repeating group: a count field plus the ordered
	// element schema registered under the component's name.
	KindGroup
)

func (k MemberKind) String() string {
	switch k {
	case KindSimple:
		return "Simple"
	case KindEnumeration:
		return "Enumeration"
	case KindLengthData:
		return "LengthData"
	case KindGroup:
		return "Group"
	default:
		return "MemberKind(?)"
	}
}

// SimpleMember is one scalar field reference shared by every descriptor
// shape: name, wire tag, requiredness and primitive type.
type SimpleMember struct {
	Name     string
	Tag      uint16
	Required bool
	Type     dictionary.BasicType
}

// MemberDesc is a tagged variant over the resolved member shapes. Only
// the fields matching Kind are meaningful.
type MemberDesc struct {
	Kind MemberKind

	// Simple and Enumeration.
	Simple SimpleMember

	// LengthData.
	Length SimpleMember
	Data   SimpleMember

	// Group. NumInGroup is the count field, Group names the component
	// and carries the count field's tag, ElementTags lists the tags of
	// the Simple members directly inside the element schema.
	NumInGroup  SimpleMember
	Group       SimpleMember
	ElementTags []uint16
}

func simpleDesc(name string, tag uint16, required bool, typ dictionary.BasicType) MemberDesc {
	return MemberDesc{
		Kind:   KindSimple,
		Simple: SimpleMember{Name: name, Tag: tag, Required: required, Type: typ},
	}
}

func enumerationDesc(name string, tag uint16, required bool, typ dictionary.BasicType) MemberDesc {
	return MemberDesc{
		Kind:   KindEnumeration,
		Simple: SimpleMember{Name: name, Tag: tag, Required: required, Type: typ},
	}
}

func lengthDataDesc(length, data SimpleMember) MemberDesc {
	return MemberDesc{Kind: KindLengthData, Length: length, Data: data}
}

func groupDesc(numInGroup, group SimpleMember, elementTags []uint16) MemberDesc {
	return MemberDesc{
		Kind:        KindGroup,
		NumInGroup:  numInGroup,
		Group:       group,
		ElementTags: elementTags,
	}
}

// numInGroupMember builds the count-field reference of a group. The
// required flag comes from the component membership, not from the
// field's own declaration.
func numInGroupMember(name string, tag uint16, required bool) SimpleMember {
	return SimpleMember{Name: name, Tag: tag, Required: required, Type: dictionary.TypeNumInGroup}
}

// groupMember builds the group's own reference: the component name
// under the count field's tag, so decoders can recognize the group
// boundary.
func groupMember(name string, tag uint16, required bool) SimpleMember {
	return SimpleMember{Name: name, Tag: tag, Required: required, Type: dictionary.TypeNumInGroup}
}
