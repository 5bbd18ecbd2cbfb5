package dictionary

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
)

// The loader understands the QuickFIX dictionary layout: a <fix> root
// with header, trailer, messages, components and fields sections.
// <group> elements are rewritten into components carrying a
// NumberOfElements member, which is the only way repeating groups enter
// the model.

type xmlFix struct {
	XMLName     xml.Name      `xml:"fix"`
	Type        string        `xml:"type,attr"`
	Major       string        `xml:"major,attr"`
	Minor       string        `xml:"minor,attr"`
	ServicePack string        `xml:"servicepack,attr"`
	Header      xmlMemberList `xml:"header"`
	Trailer     xmlMemberList `xml:"trailer"`
	Messages    []xmlMessage  `xml:"messages>message"`
	Components  []xmlMember   `xml:"components>component"`
	Fields      []xmlField    `xml:"fields>field"`
	Overrides   []xmlOverride `xml:"rejectReasonOverrides>override"`
}

type xmlMemberList struct {
	Members []xmlMember `xml:",any"`
}

// xmlMember covers <field>, <component> and <group> references; XMLName
// tells them apart and Members carries nested elements in document order.
type xmlMember struct {
	XMLName  xml.Name
	Name     string      `xml:"name,attr"`
	Required string      `xml:"required,attr"`
	Members  []xmlMember `xml:",any"`
}

type xmlMessage struct {
	Name    string      `xml:"name,attr"`
	MsgType string      `xml:"msgtype,attr"`
	MsgCat  string      `xml:"msgcat,attr"`
	Members []xmlMember `xml:",any"`
}

type xmlField struct {
	Number string     `xml:"number,attr"`
	Name   string     `xml:"name,attr"`
	Type   string     `xml:"type,attr"`
	Values []xmlValue `xml:"value"`
}

type xmlValue struct {
	Enum        string `xml:"enum,attr"`
	Description string `xml:"description,attr"`
}

type xmlOverride struct {
	Parse   string `xml:"parse,attr"`
	Session string `xml:"session,attr"`
}

// LoadFile reads and parses a dictionary document from disk.
func LoadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()
	d, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Load parses a dictionary document into an immutable Dictionary.
func Load(r io.Reader) (*Dictionary, error) {
	var doc xmlFix
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse dictionary: %w", err)
	}

	d := New()

	if err := loadVersion(d, doc); err != nil {
		return nil, err
	}

	for _, f := range doc.Fields {
		field, err := convertField(f)
		if err != nil {
			return nil, err
		}
		if err := d.AddField(field); err != nil {
			return nil, err
		}
	}

	for _, c := range doc.Components {
		if c.XMLName.Local != "component" {
			return nil, fmt.Errorf("unexpected element <%s> in components section", c.XMLName.Local)
		}
		members, err := convertMembers(d, c.Members)
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", c.Name, err)
		}
		if err := d.AddComponent(Component{Name: c.Name, Members: members}); err != nil {
			return nil, err
		}
	}

	header, err := convertMembers(d, doc.Header.Members)
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	d.SetHeader(header)

	trailer, err := convertMembers(d, doc.Trailer.Members)
	if err != nil {
		return nil, fmt.Errorf("trailer: %w", err)
	}
	d.SetTrailer(trailer)

	for _, m := range doc.Messages {
		members, err := convertMembers(d, m.Members)
		if err != nil {
			return nil, fmt.Errorf("message %s: %w", m.Name, err)
		}
		cat, err := parseMsgCat(m.MsgCat)
		if err != nil {
			return nil, fmt.Errorf("message %s: %w", m.Name, err)
		}
		if m.MsgType == "" {
			return nil, fmt.Errorf("message %s: missing msgtype", m.Name)
		}
		msg := Message{Name: m.Name, MsgType: m.MsgType, MsgCat: cat, Members: members}
		if err := d.AddMessage(msg); err != nil {
			return nil, err
		}
	}

	for _, o := range doc.Overrides {
		if o.Parse == "" || o.Session == "" {
			return nil, fmt.Errorf("reject reason override needs parse and session attributes")
		}
		d.SetRejectReasonOverride(o.Parse, o.Session)
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func loadVersion(d *Dictionary, doc xmlFix) error {
	major, err := versionAttr(doc.Major, "major", true)
	if err != nil {
		return err
	}
	minor, err := versionAttr(doc.Minor, "minor", true)
	if err != nil {
		return err
	}
	sp, err := versionAttr(doc.ServicePack, "servicepack", false)
	if err != nil {
		return err
	}
	v := Version{Major: major, Minor: minor, ServicePack: sp}
	switch doc.Type {
	case "FIX", "":
		d.SetFixVersion(v)
	case "FIXT":
		d.SetFixtVersion(v)
	default:
		return fmt.Errorf("unknown dictionary type %q", doc.Type)
	}
	return nil
}

func versionAttr(s, name string, required bool) (int, error) {
	if s == "" {
		if required {
			return 0, fmt.Errorf("missing %s version attribute", name)
		}
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s version attribute %q", name, s)
	}
	return n, nil
}

func convertField(f xmlField) (Field, error) {
	num, err := strconv.ParseUint(f.Number, 10, 16)
	if err != nil {
		return Field{}, fmt.Errorf("field %s: invalid number %q", f.Name, f.Number)
	}
	typ, err := ParseBasicType(f.Type)
	if err != nil {
		return Field{}, fmt.Errorf("field %s: %w", f.Name, err)
	}
	field := Field{Number: uint16(num), Name: f.Name, Type: typ}
	for _, v := range f.Values {
		field.Values = append(field.Values, Value{Enum: v.Enum, Description: v.Description})
	}
	return field, nil
}

// convertMembers turns raw member elements into model members, rewriting
// each <group> into a synthesized component registered on the dictionary.
func convertMembers(d *Dictionary, raw []xmlMember) ([]Member, error) {
	var members []Member
	for _, m := range raw {
		required, err := parseRequired(m.Required)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", m.XMLName.Local, m.Name, err)
		}
		switch m.XMLName.Local {
		case "field":
			members = append(members, Member{Kind: MemberField, Name: m.Name, Required: required})
		case "component":
			members = append(members, Member{Kind: MemberComponent, Name: m.Name, Required: required})
		case "group":
			if err := synthesizeGroup(d, m, required); err != nil {
				return nil, err
			}
			members = append(members, Member{Kind: MemberComponent, Name: m.Name, Required: required})
		default:
			return nil, fmt.Errorf("unexpected member element <%s>", m.XMLName.Local)
		}
	}
	return members, nil
}

// synthesizeGroup registers a <group> as a component named after its
// count field. QuickFIX documents repeat group bodies at every
// reference; the first definition wins, matching the schema compiler's
// group memoization.
func synthesizeGroup(d *Dictionary, m xmlMember, required bool) error {
	if _, ok := d.Component(m.Name); ok {
		return nil
	}
	members, err := convertMembers(d, m.Members)
	if err != nil {
		return fmt.Errorf("group %s: %w", m.Name, err)
	}
	count := Member{Kind: MemberField, Name: m.Name, Required: required}
	return d.AddComponent(Component{Name: m.Name, Members: members, NumberOfElements: &count})
}

func parseRequired(s string) (bool, error) {
	switch s {
	case "Y":
		return true, nil
	case "N", "":
		return false, nil
	default:
		return false, fmt.Errorf("invalid required attribute %q", s)
	}
}

func parseMsgCat(s string) (MsgCat, error) {
	switch s {
	case "admin":
		return MsgCatAdmin, nil
	case "app":
		return MsgCatApp, nil
	default:
		return 0, fmt.Errorf("invalid msgcat %q", s)
	}
}
