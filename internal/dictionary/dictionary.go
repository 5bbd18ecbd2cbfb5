// Package dictionary holds the in-memory model of a FIX protocol
// dictionary: fields, components, messages, header, trailer and version
// information. A Dictionary is built once (by Load or programmatically)
// and is immutable afterwards as far as the schema compiler is concerned.
package dictionary

import "fmt"

type BasicType int

const (
	TypeString BasicType = iota
	TypeChar
	TypeInt
	TypeFloat
	TypeLength
	TypeData
	TypeXMLData
	TypeBoolean
	TypeNumInGroup
	TypeSeqNum
	TypeUTCTimestamp
	TypeUTCTimeOnly
	TypeUTCDateOnly
	TypeLocalMktDate
	TypeMonthYear
	TypePrice
	TypePriceOffset
	TypeQty
	TypeAmt
	TypePercentage
	TypeCurrency
	TypeExchange
	TypeCountry
	TypeLanguage
	TypeMultipleCharValue
	TypeMultipleStringValue
	TypeTZTimestamp
	TypeTZTimeOnly
	TypeDayOfMonth
)

var basicTypeNames = map[BasicType]string{
	TypeString:              "STRING",
	TypeChar:                "CHAR",
	TypeInt:                 "INT",
	TypeFloat:               "FLOAT",
	TypeLength:              "LENGTH",
	TypeData:                "DATA",
	TypeXMLData:             "XMLDATA",
	TypeBoolean:             "BOOLEAN",
	TypeNumInGroup:          "NUMINGROUP",
	TypeSeqNum:              "SEQNUM",
	TypeUTCTimestamp:        "UTCTIMESTAMP",
	TypeUTCTimeOnly:         "UTCTIMEONLY",
	TypeUTCDateOnly:         "UTCDATEONLY",
	TypeLocalMktDate:        "LOCALMKTDATE",
	TypeMonthYear:           "MONTHYEAR",
	TypePrice:               "PRICE",
	TypePriceOffset:         "PRICEOFFSET",
	TypeQty:                 "QTY",
	TypeAmt:                 "AMT",
	TypePercentage:          "PERCENTAGE",
	TypeCurrency:            "CURRENCY",
	TypeExchange:            "EXCHANGE",
	TypeCountry:             "COUNTRY",
	TypeLanguage:            "LANGUAGE",
	TypeMultipleCharValue:   "MULTIPLECHARVALUE",
	TypeMultipleStringValue: "MULTIPLESTRINGVALUE",
	TypeTZTimestamp:         "TZTIMESTAMP",
	TypeTZTimeOnly:          "TZTIMEONLY",
	TypeDayOfMonth:          "DAYOFMONTH",
}

var basicTypesByName = func() map[string]BasicType {
	m := make(map[string]BasicType, len(basicTypeNames))
	for t, name := range basicTypeNames {
		m[name] = t
	}
	return m
}()

func (t BasicType) String() string {
	if name, ok := basicTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("BasicType(%d)", int(t))
}

// ParseBasicType maps a dictionary TYPE attribute to a BasicType.
func ParseBasicType(s string) (BasicType, error) {
	t, ok := basicTypesByName[s]
	if !ok {
		return 0, fmt.Errorf("unknown basic type %q", s)
	}
	return t, nil
}

// Value is one entry of a field's closed value set.
type Value struct {
	Enum        string
	Description string
}

type Field struct {
	Number uint16
	Name   string
	Type   BasicType
	Values []Value
}

type MemberKind int

const (
	MemberField MemberKind = iota
	MemberComponent
)

// Member is a raw dictionary element reference, ordered as declared.
type Member struct {
	Kind     MemberKind
	Name     string
	Required bool
}

// Component is a named reusable block of members. A non-nil
// NumberOfElements marks it as a repeating-group template; the member
// references the group's count field.
type Component struct {
	Name             string
	Members          []Member
	NumberOfElements *Member
}

type MsgCat int

const (
	MsgCatAdmin MsgCat = iota
	MsgCatApp
)

func (c MsgCat) String() string {
	if c == MsgCatAdmin {
		return "admin"
	}
	return "app"
}

type Message struct {
	Name    string
	MsgType string
	MsgCat  MsgCat
	Members []Member
}

type Version struct {
	Major       int
	Minor       int
	ServicePack int
}

type Dictionary struct {
	fixVersion  *Version
	fixtVersion *Version

	fields         []*Field
	fieldsByName   map[string]*Field
	fieldsByNumber map[uint16]*Field

	components map[string]*Component

	messages       []*Message
	messagesByName map[string]*Message

	header  []Member
	trailer []Member

	rejectOverrides map[string]string
}

func New() *Dictionary {
	return &Dictionary{
		fieldsByName:    make(map[string]*Field),
		fieldsByNumber:  make(map[uint16]*Field),
		components:      make(map[string]*Component),
		messagesByName:  make(map[string]*Message),
		rejectOverrides: make(map[string]string),
	}
}

func (d *Dictionary) AddField(f Field) error {
	if _, ok := d.fieldsByName[f.Name]; ok {
		return fmt.Errorf("duplicate field name %q", f.Name)
	}
	if prev, ok := d.fieldsByNumber[f.Number]; ok {
		return fmt.Errorf("duplicate field number %d (%s, %s)", f.Number, prev.Name, f.Name)
	}
	fc := f
	d.fields = append(d.fields, &fc)
	d.fieldsByName[f.Name] = &fc
	d.fieldsByNumber[f.Number] = &fc
	return nil
}

func (d *Dictionary) AddComponent(c Component) error {
	if _, ok := d.components[c.Name]; ok {
		return fmt.Errorf("duplicate component %q", c.Name)
	}
	cc := c
	d.components[c.Name] = &cc
	return nil
}

func (d *Dictionary) AddMessage(m Message) error {
	if _, ok := d.messagesByName[m.Name]; ok {
		return fmt.Errorf("duplicate message %q", m.Name)
	}
	mc := m
	d.messages = append(d.messages, &mc)
	d.messagesByName[m.Name] = &mc
	return nil
}

func (d *Dictionary) SetHeader(members []Member)  { d.header = members }
func (d *Dictionary) SetTrailer(members []Member) { d.trailer = members }

func (d *Dictionary) SetFixVersion(v Version)  { d.fixVersion = &v }
func (d *Dictionary) SetFixtVersion(v Version) { d.fixtVersion = &v }

// SetRejectReasonOverride maps a parse-time reject reason symbol to a
// session-level reject reason symbol, replacing the default
// identity-by-name mapping for that symbol.
func (d *Dictionary) SetRejectReasonOverride(parse, session string) {
	d.rejectOverrides[parse] = session
}

func (d *Dictionary) FieldByName(name string) (*Field, bool) {
	f, ok := d.fieldsByName[name]
	return f, ok
}

func (d *Dictionary) FieldByNumber(num uint16) (*Field, bool) {
	f, ok := d.fieldsByNumber[num]
	return f, ok
}

// Fields returns all fields in declaration order.
func (d *Dictionary) Fields() []*Field { return d.fields }

func (d *Dictionary) Component(name string) (*Component, bool) {
	c, ok := d.components[name]
	return c, ok
}

// Messages returns all messages in declaration order.
func (d *Dictionary) Messages() []*Message { return d.messages }

func (d *Dictionary) MessageByName(name string) (*Message, bool) {
	m, ok := d.messagesByName[name]
	return m, ok
}

func (d *Dictionary) Header() []Member  { return d.header }
func (d *Dictionary) Trailer() []Member { return d.trailer }

func (d *Dictionary) FixVersion() *Version  { return d.fixVersion }
func (d *Dictionary) FixtVersion() *Version { return d.fixtVersion }

func (d *Dictionary) RejectReasonOverrides() map[string]string { return d.rejectOverrides }

// Validate checks that every member reference in the header, trailer,
// messages and components resolves to a declared field or component, and
// that every group component's count field is declared. The schema
// compiler repeats these lookups, but failing here keeps loader errors
// close to the source document.
func (d *Dictionary) Validate() error {
	if err := d.validateMembers("header", d.header); err != nil {
		return err
	}
	if err := d.validateMembers("trailer", d.trailer); err != nil {
		return err
	}
	for _, m := range d.messages {
		if err := d.validateMembers("message "+m.Name, m.Members); err != nil {
			return err
		}
	}
	for name, c := range d.components {
		if err := d.validateMembers("component "+name, c.Members); err != nil {
			return err
		}
		if c.NumberOfElements != nil {
			if _, ok := d.fieldsByName[c.NumberOfElements.Name]; !ok {
				return fmt.Errorf("component %s: unknown count field %q", name, c.NumberOfElements.Name)
			}
		}
	}
	return nil
}

func (d *Dictionary) validateMembers(where string, members []Member) error {
	for _, m := range members {
		switch m.Kind {
		case MemberField:
			if _, ok := d.fieldsByName[m.Name]; !ok {
				return fmt.Errorf("%s: unknown field %q", where, m.Name)
			}
		case MemberComponent:
			if _, ok := d.components[m.Name]; !ok {
				return fmt.Errorf("%s: unknown component %q", where, m.Name)
			}
		}
	}
	return nil
}
