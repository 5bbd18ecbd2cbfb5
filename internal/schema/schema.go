// Package schema compiles a dictionary into the typed message schema
// used by the code generator: ordered member descriptors for header,
// trailer, messages and repeating groups, enumeration definitions, the
// tag catalog, the begin-string literal and the reject-reason mapping.
// Compilation is a pure function of the dictionary; nothing is mutated
// afterwards.
package schema

import (
	"fmt"
	"sort"

	"github.com/maciejwalesiak/easyfix/internal/dictionary"
)

// MessageProperties carries the message-only attributes of a Struct.
// Header and Trailer point at the shared header/trailer structs; every
// message references the same two instances.
type MessageProperties struct {
	MsgCat  dictionary.MsgCat
	MsgType string
	Header  *Struct
	Trailer *Struct
}

// Struct is one ordered descriptor list: the header, the trailer, a
// message, or a repeating-group element type.
type Struct struct {
	Name    string
	Members []MemberDesc
	Props   *MessageProperties

	group bool
}

func newGroupStruct(name string, members []MemberDesc) *Struct {
	return &Struct{Name: name, Members: members, group: true}
}

// IsGroup reports whether the struct is a repeating-group element type.
func (s *Struct) IsGroup() bool { return s.group }

type EnumValue struct {
	Symbol string
	Wire   string
}

// EnumDesc is one non-boolean field's closed value set.
type EnumDesc struct {
	Name   string
	Type   dictionary.BasicType
	Values []EnumValue
}

// FieldTag is one entry of the tag catalog. Symbol is the canonical
// UpperCamel name; Name keeps the declared spelling for diagnostics and
// is never routed into an encode path.
type FieldTag struct {
	Tag    uint16
	Name   string
	Symbol string
	Type   dictionary.BasicType
}

// Schema is the compiled artifact consumed by the code generator and,
// through it, by the external serializer and deserializer.
type Schema struct {
	BeginString []byte
	Header      *Struct
	Trailer     *Struct
	Messages    []*Struct
	Groups      []*Struct
	Enums       []EnumDesc
	Fields      []FieldTag
	RejectMap   map[ParseRejectReason]SessionRejectReason
}

// Structs returns every struct in emission order: header, trailer,
// messages in declaration order, then groups in first-resolution order.
func (s *Schema) Structs() []*Struct {
	out := make([]*Struct, 0, 2+len(s.Messages)+len(s.Groups))
	out = append(out, s.Header, s.Trailer)
	out = append(out, s.Messages...)
	out = append(out, s.Groups...)
	return out
}

// Compile resolves the whole dictionary into a Schema. The dictionary
// is read-only; one resolver (and its group memo table) lives for
// exactly one call.
func Compile(dict *dictionary.Dictionary) (*Schema, error) {
	begin, err := beginString(dict)
	if err != nil {
		return nil, err
	}

	r := newResolver(dict)

	if len(dict.Header()) == 0 {
		return nil, fmt.Errorf("missing header definition")
	}
	headerDescs, err := r.resolveMembers(dict.Header())
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	header := &Struct{Name: "Header", Members: headerDescs}

	if len(dict.Trailer()) == 0 {
		return nil, fmt.Errorf("missing trailer definition")
	}
	trailerDescs, err := r.resolveMembers(dict.Trailer())
	if err != nil {
		return nil, fmt.Errorf("trailer: %w", err)
	}
	trailer := &Struct{Name: "Trailer", Members: trailerDescs}

	var messages []*Struct
	for _, msg := range dict.Messages() {
		descs, err := r.resolveMembers(msg.Members)
		if err != nil {
			return nil, fmt.Errorf("message %s: %w", msg.Name, err)
		}
		messages = append(messages, &Struct{
			Name:    msg.Name,
			Members: descs,
			Props: &MessageProperties{
				MsgCat:  msg.MsgCat,
				MsgType: msg.MsgType,
				Header:  header,
				Trailer: trailer,
			},
		})
	}

	// Groups are appended after all messages so each distinct
	// component emits exactly once, however many messages reference it.
	groups := make([]*Struct, 0, len(r.groupOrder))
	for _, name := range r.groupOrder {
		groups = append(groups, r.groups[name])
	}

	enums, err := buildEnums(dict)
	if err != nil {
		return nil, err
	}

	catalog, err := buildCatalog(dict)
	if err != nil {
		return nil, err
	}

	rejectMap, err := buildRejectMap(dict.RejectReasonOverrides())
	if err != nil {
		return nil, err
	}

	return &Schema{
		BeginString: begin,
		Header:      header,
		Trailer:     trailer,
		Messages:    messages,
		Groups:      groups,
		Enums:       enums,
		Fields:      catalog,
		RejectMap:   rejectMap,
	}, nil
}

// buildEnums derives one EnumDesc per field with a closed value set,
// skipping booleans: a binary domain stays the primitive type.
func buildEnums(dict *dictionary.Dictionary) ([]EnumDesc, error) {
	fields := sortedFields(dict)
	var enums []EnumDesc
	for _, f := range fields {
		if f.Type == dictionary.TypeBoolean || len(f.Values) == 0 {
			continue
		}
		desc := EnumDesc{Name: SymbolName(f.Name), Type: f.Type}
		seen := make(map[string]string, len(f.Values))
		for _, v := range f.Values {
			symbol := SymbolName(v.Description)
			if prev, ok := seen[symbol]; ok {
				return nil, fmt.Errorf("enum %s: values %q and %q both normalize to %s", f.Name, prev, v.Description, symbol)
			}
			seen[symbol] = v.Description
			desc.Values = append(desc.Values, EnumValue{Symbol: symbol, Wire: v.Enum})
		}
		enums = append(enums, desc)
	}
	return enums, nil
}

// buildCatalog produces the tag-ascending field catalog and fails fast
// on symbol collisions (two fields normalizing to one symbol would make
// the generated tag table ambiguous).
func buildCatalog(dict *dictionary.Dictionary) ([]FieldTag, error) {
	fields := sortedFields(dict)
	catalog := make([]FieldTag, 0, len(fields))
	symbols := make(map[string]string, len(fields))
	for _, f := range fields {
		symbol := SymbolName(f.Name)
		if prev, ok := symbols[symbol]; ok {
			return nil, fmt.Errorf("fields %q and %q both normalize to symbol %s", prev, f.Name, symbol)
		}
		symbols[symbol] = f.Name
		catalog = append(catalog, FieldTag{Tag: f.Number, Name: f.Name, Symbol: symbol, Type: f.Type})
	}
	return catalog, nil
}

func sortedFields(dict *dictionary.Dictionary) []*dictionary.Field {
	fields := append([]*dictionary.Field(nil), dict.Fields()...)
	sort.Slice(fields, func(i, j int) bool { return fields[i].Number < fields[j].Number })
	return fields
}
