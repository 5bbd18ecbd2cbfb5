// Package gofix emits Go source for a compiled schema: the field tag
// table, enumerations, group and message structs, the begin-string
// literal and the reject-reason mapping. The emitted code is
// self-contained type schema; wire encoding and decoding belong to the
// external serializer runtime.
package gofix

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/maciejwalesiak/easyfix/internal/dictionary"
	"github.com/maciejwalesiak/easyfix/internal/generate"
	"github.com/maciejwalesiak/easyfix/internal/generate/templates"
	"github.com/maciejwalesiak/easyfix/internal/schema"
)

type Generator struct{}

func (g Generator) Name() string { return "gofix" }

func (g Generator) Generate(s *schema.Schema, options generate.Options) ([]generate.OutputFile, error) {
	if options.Out == "" {
		return nil, nil
	}
	pkg := options.Package
	if pkg == "" {
		return nil, fmt.Errorf("go package name is required")
	}

	tmpl, err := template.ParseFS(templates.FS, "fixfile.tmpl")
	if err != nil {
		return nil, err
	}

	files := []struct {
		name  string
		build func(*schema.Schema) ([]string, error)
	}{
		{"fields.gen.go", buildFieldsSections},
		{"groups.gen.go", buildGroupsSections},
		{"messages.gen.go", buildMessagesSections},
	}

	var outputs []generate.OutputFile
	for _, f := range files {
		sections, err := f.build(s)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		data := fileData{Package: pkg, Sections: sections}
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, err
		}
		outputs = append(outputs, generate.OutputFile{
			Path:    filepath.Join(options.Out, f.name),
			Content: buf.Bytes(),
		})
	}

	utilContent, err := loadUtilSource(pkg)
	if err != nil {
		return nil, err
	}
	outputs = append(outputs, generate.OutputFile{
		Path:    filepath.Join(options.Out, "basic_types.go"),
		Content: utilContent,
	})
	return outputs, nil
}

type fileData struct {
	Package  string
	Imports  []string
	Sections []string
}

// loadUtilSource rewrites the embedded basic-types source to the target
// package.
func loadUtilSource(pkg string) ([]byte, error) {
	content, err := templates.FS.ReadFile("basic_types.src")
	if err != nil {
		return nil, fmt.Errorf("read basic types source: %w", err)
	}
	updated := strings.Replace(string(content), "package fixtypes", "package "+pkg, 1)
	header := "// Code generated by fixgen. DO NOT EDIT.\n\n"
	return []byte(header + updated), nil
}

func buildFieldsSections(s *schema.Schema) ([]string, error) {
	var sections []string
	sections = append(sections, buildFieldTagSection(s.Fields))
	for _, e := range s.Enums {
		section, err := buildEnumSection(e)
		if err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}
	sections = append(sections, buildRejectSection(s.RejectMap))
	return sections, nil
}

func buildFieldTagSection(fields []schema.FieldTag) string {
	var lines []string
	lines = append(lines, "// FieldTag identifies a dictionary field by its wire tag.")
	lines = append(lines, "type FieldTag TagNum")
	lines = append(lines, "")
	lines = append(lines, "const (")
	for _, f := range fields {
		lines = append(lines, fmt.Sprintf("\tFieldTag%s FieldTag = %d", f.Symbol, f.Tag))
	}
	lines = append(lines, ")")
	lines = append(lines, "")
	lines = append(lines, "func FieldTagFromTagNum(tag TagNum) (FieldTag, bool) {")
	lines = append(lines, "\tswitch tag {")
	for _, f := range fields {
		lines = append(lines, fmt.Sprintf("\tcase %d:", f.Tag))
		lines = append(lines, fmt.Sprintf("\t\treturn FieldTag%s, true", f.Symbol))
	}
	lines = append(lines, "\t}")
	lines = append(lines, "\treturn 0, false")
	lines = append(lines, "}")
	lines = append(lines, "")
	lines = append(lines, "// Name returns the declared field name, for diagnostics only.")
	lines = append(lines, "func (f FieldTag) Name() string {")
	lines = append(lines, "\tswitch f {")
	for _, f := range fields {
		lines = append(lines, fmt.Sprintf("\tcase FieldTag%s:", f.Symbol))
		lines = append(lines, fmt.Sprintf("\t\treturn %q", f.Name))
	}
	lines = append(lines, "\t}")
	lines = append(lines, "\treturn \"\"")
	lines = append(lines, "}")
	return strings.Join(lines, "\n")
}

func buildEnumSection(e schema.EnumDesc) (string, error) {
	underlying, err := enumUnderlyingType(e.Type)
	if err != nil {
		return "", fmt.Errorf("enum %s: %w", e.Name, err)
	}
	var lines []string
	lines = append(lines, fmt.Sprintf("type %s %s", e.Name, underlying))
	lines = append(lines, "")
	lines = append(lines, "const (")
	for _, v := range e.Values {
		literal, err := enumValueLiteral(e.Type, v.Wire)
		if err != nil {
			return "", fmt.Errorf("enum %s value %s: %w", e.Name, v.Symbol, err)
		}
		lines = append(lines, fmt.Sprintf("\t%s%s %s = %s", e.Name, v.Symbol, e.Name, literal))
	}
	lines = append(lines, ")")
	return strings.Join(lines, "\n"), nil
}

func enumUnderlyingType(t dictionary.BasicType) (string, error) {
	switch t {
	case dictionary.TypeChar:
		return "byte", nil
	case dictionary.TypeInt, dictionary.TypeNumInGroup, dictionary.TypeDayOfMonth:
		return "int64", nil
	case dictionary.TypeBoolean:
		return "", fmt.Errorf("boolean fields are never enumerated")
	default:
		return "FixString", nil
	}
}

func enumValueLiteral(t dictionary.BasicType, wire string) (string, error) {
	switch t {
	case dictionary.TypeChar:
		if len(wire) != 1 {
			return "", fmt.Errorf("char value %q is not a single byte", wire)
		}
		return fmt.Sprintf("%q", wire[0]), nil
	case dictionary.TypeInt, dictionary.TypeNumInGroup, dictionary.TypeDayOfMonth:
		return wire, nil
	default:
		return fmt.Sprintf("%q", wire), nil
	}
}

func buildRejectSection(m map[schema.ParseRejectReason]schema.SessionRejectReason) string {
	reasons := schema.ParseRejectReasons()
	var lines []string
	lines = append(lines, "// Reject reason domains and the total parse-to-session mapping.")
	lines = append(lines, "type ParseRejectReason int")
	lines = append(lines, "")
	lines = append(lines, "const (")
	for i, r := range reasons {
		if i == 0 {
			lines = append(lines, fmt.Sprintf("\tParseRejectReason%s ParseRejectReason = iota", r))
		} else {
			lines = append(lines, fmt.Sprintf("\tParseRejectReason%s", r))
		}
	}
	lines = append(lines, ")")
	lines = append(lines, "")
	lines = append(lines, "type SessionRejectReason int")
	lines = append(lines, "")
	lines = append(lines, "const (")
	for i, r := range reasons {
		if i == 0 {
			lines = append(lines, fmt.Sprintf("\tSessionRejectReason%s SessionRejectReason = iota", r))
		} else {
			lines = append(lines, fmt.Sprintf("\tSessionRejectReason%s", r))
		}
	}
	lines = append(lines, ")")
	lines = append(lines, "")
	lines = append(lines, "func SessionRejectReasonFromParse(r ParseRejectReason) SessionRejectReason {")
	lines = append(lines, "\tswitch r {")
	for _, r := range reasons {
		lines = append(lines, fmt.Sprintf("\tcase ParseRejectReason%s:", r))
		lines = append(lines, fmt.Sprintf("\t\treturn SessionRejectReason%s", m[r]))
	}
	lines = append(lines, "\t}")
	lines = append(lines, "\treturn SessionRejectReasonOther")
	lines = append(lines, "}")
	return strings.Join(lines, "\n")
}

func buildGroupsSections(s *schema.Schema) ([]string, error) {
	var sections []string
	for _, g := range s.Groups {
		section, err := buildStructSection(g)
		if err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}
	return sections, nil
}

func buildMessagesSections(s *schema.Schema) ([]string, error) {
	var sections []string

	sections = append(sections, strings.Join([]string{
		"// BeginString must open every wire message and match byte for byte",
		"// on decode; a mismatch is a garbled message.",
		fmt.Sprintf("const BeginString = %q", string(s.BeginString)),
		"",
		"const (",
		fmt.Sprintf("\tBeginStringTag TagNum = %d", schema.BeginStringTag),
		fmt.Sprintf("\tBodyLengthTag  TagNum = %d", schema.BodyLengthTag),
		fmt.Sprintf("\tMsgTypeTag     TagNum = %d", schema.MsgTypeTag),
		"",
		"\t// MsgTypePosition is the 1-based wire position MsgType(35) must",
		"\t// occupy; anything else garbles the message.",
		fmt.Sprintf("\tMsgTypePosition = %d", schema.MsgTypePosition),
		")",
	}, "\n"))

	for _, st := range []*schema.Struct{s.Header, s.Trailer} {
		section, err := buildStructSection(st)
		if err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}

	for _, msg := range s.Messages {
		section, err := buildStructSection(msg)
		if err != nil {
			return nil, err
		}
		sections = append(sections, section)
		sections = append(sections, buildMessageMethods(msg))
	}

	sections = append(sections, buildMessageUnion(s.Messages))
	return sections, nil
}

func buildStructSection(s *schema.Struct) (string, error) {
	var lines []string
	lines = append(lines, fmt.Sprintf("type %s struct {", schema.SymbolName(s.Name)))
	for _, m := range s.Members {
		fieldLines, err := buildStructField(m)
		if err != nil {
			return "", fmt.Errorf("struct %s: %w", s.Name, err)
		}
		lines = append(lines, fieldLines...)
	}
	lines = append(lines, "}")
	return strings.Join(lines, "\n"), nil
}

// buildStructField maps one descriptor to struct field lines. Group
// count fields carry no storage (the count is the slice length) and
// the length half of a Length/Data pair is derived at serialization.
func buildStructField(m schema.MemberDesc) ([]string, error) {
	switch m.Kind {
	case schema.KindSimple:
		if m.Simple.Type == dictionary.TypeNumInGroup {
			return nil, nil
		}
		typ, err := goScalarType(m.Simple.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", m.Simple.Name, err)
		}
		return []string{fmt.Sprintf("\t%s %s", schema.SymbolName(m.Simple.Name), optional(typ, m.Simple.Required))}, nil
	case schema.KindEnumeration:
		typ := schema.SymbolName(m.Simple.Name)
		return []string{fmt.Sprintf("\t%s %s", schema.SymbolName(m.Simple.Name), optional(typ, m.Simple.Required))}, nil
	case schema.KindLengthData:
		typ, err := goScalarType(m.Data.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", m.Data.Name, err)
		}
		return []string{fmt.Sprintf("\t%s %s", schema.SymbolName(m.Data.Name), typ)}, nil
	case schema.KindGroup:
		return []string{fmt.Sprintf("\t%s []%s", schema.SymbolName(m.Group.Name), schema.SymbolName(m.Group.Name))}, nil
	default:
		return nil, fmt.Errorf("unhandled member kind %s", m.Kind)
	}
}

func optional(typ string, required bool) string {
	if required || strings.HasPrefix(typ, "[]") {
		return typ
	}
	return "*" + typ
}

func goScalarType(t dictionary.BasicType) (string, error) {
	switch t {
	case dictionary.TypeString, dictionary.TypeMultipleCharValue, dictionary.TypeMultipleStringValue:
		return "FixString", nil
	case dictionary.TypeChar:
		return "byte", nil
	case dictionary.TypeInt, dictionary.TypeDayOfMonth:
		return "int64", nil
	case dictionary.TypeFloat:
		return "float64", nil
	case dictionary.TypeLength:
		return "Length", nil
	case dictionary.TypeData:
		return "Data", nil
	case dictionary.TypeXMLData:
		return "XMLData", nil
	case dictionary.TypeBoolean:
		return "Boolean", nil
	case dictionary.TypeSeqNum:
		return "SeqNum", nil
	case dictionary.TypeUTCTimestamp:
		return "UTCTimestamp", nil
	case dictionary.TypeUTCTimeOnly:
		return "UTCTimeOnly", nil
	case dictionary.TypeUTCDateOnly:
		return "UTCDateOnly", nil
	case dictionary.TypeLocalMktDate:
		return "LocalMktDate", nil
	case dictionary.TypeMonthYear:
		return "MonthYear", nil
	case dictionary.TypePrice:
		return "Price", nil
	case dictionary.TypePriceOffset:
		return "PriceOffset", nil
	case dictionary.TypeQty:
		return "Qty", nil
	case dictionary.TypeAmt:
		return "Amt", nil
	case dictionary.TypePercentage:
		return "Percentage", nil
	case dictionary.TypeCurrency:
		return "Currency", nil
	case dictionary.TypeExchange:
		return "Exchange", nil
	case dictionary.TypeCountry:
		return "Country", nil
	case dictionary.TypeLanguage:
		return "Language", nil
	case dictionary.TypeTZTimestamp:
		return "TZTimestamp", nil
	case dictionary.TypeTZTimeOnly:
		return "TZTimeOnly", nil
	default:
		return "", fmt.Errorf("unsupported scalar type %s", t)
	}
}

func buildMessageMethods(msg *schema.Struct) string {
	name := schema.SymbolName(msg.Name)
	cat := "MsgCatApp"
	if msg.Props.MsgCat == dictionary.MsgCatAdmin {
		cat = "MsgCatAdmin"
	}
	return strings.Join([]string{
		fmt.Sprintf("func (m *%s) MsgType() FixString { return %q }", name, msg.Props.MsgType),
		"",
		fmt.Sprintf("func (m *%s) MsgCat() MsgCat { return %s }", name, cat),
		"",
		fmt.Sprintf("func (*%s) isMessage() {}", name),
	}, "\n")
}

func buildMessageUnion(messages []*schema.Struct) string {
	var lines []string
	lines = append(lines, "// Message is the closed set of body types of this dictionary.")
	lines = append(lines, "type Message interface {")
	lines = append(lines, "\tMsgType() FixString")
	lines = append(lines, "\tMsgCat() MsgCat")
	lines = append(lines, "\tisMessage()")
	lines = append(lines, "}")
	lines = append(lines, "")
	lines = append(lines, "type FixMessage struct {")
	lines = append(lines, "\tHeader  Header")
	lines = append(lines, "\tBody    Message")
	lines = append(lines, "\tTrailer Trailer")
	lines = append(lines, "}")
	lines = append(lines, "")
	lines = append(lines, "// MsgCatForMsgType routes a decoded MsgType(35) value to its")
	lines = append(lines, "// category; unknown values are a distinct rejection")
	lines = append(lines, "// (ParseRejectReasonInvalidMsgType), not a garbled message.")
	lines = append(lines, "func MsgCatForMsgType(msgType FixString) (MsgCat, bool) {")
	lines = append(lines, "\tswitch msgType {")
	for _, msg := range messages {
		cat := "MsgCatApp"
		if msg.Props.MsgCat == dictionary.MsgCatAdmin {
			cat = "MsgCatAdmin"
		}
		lines = append(lines, fmt.Sprintf("\tcase %q:", msg.Props.MsgType))
		lines = append(lines, fmt.Sprintf("\t\treturn %s, true", cat))
	}
	lines = append(lines, "\t}")
	lines = append(lines, "\treturn 0, false")
	lines = append(lines, "}")
	return strings.Join(lines, "\n")
}
