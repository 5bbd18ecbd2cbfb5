package gofix

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maciejwalesiak/easyfix/internal/dictionary"
	"github.com/maciejwalesiak/easyfix/internal/generate"
	"github.com/maciejwalesiak/easyfix/internal/schema"
)

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	d := dictionary.New()

	fields := []dictionary.Field{
		{Number: 8, Name: "BeginString", Type: dictionary.TypeString},
		{Number: 9, Name: "BodyLength", Type: dictionary.TypeLength},
		{Number: 35, Name: "MsgType", Type: dictionary.TypeString},
		{Number: 10, Name: "CheckSum", Type: dictionary.TypeString},
		{Number: 11, Name: "ClOrdID", Type: dictionary.TypeString},
		{Number: 54, Name: "Side", Type: dictionary.TypeChar, Values: []dictionary.Value{
			{Enum: "1", Description: "BUY"},
			{Enum: "2", Description: "SELL"},
		}},
		{Number: 215, Name: "NoRoutingIDs", Type: dictionary.TypeNumInGroup},
		{Number: 217, Name: "RoutingID", Type: dictionary.TypeString},
		{Number: 93, Name: "SignatureLength", Type: dictionary.TypeLength},
		{Number: 89, Name: "Signature", Type: dictionary.TypeData},
	}
	for _, f := range fields {
		require.NoError(t, d.AddField(f))
	}

	count := dictionary.Member{Kind: dictionary.MemberField, Name: "NoRoutingIDs"}
	require.NoError(t, d.AddComponent(dictionary.Component{
		Name:             "NoRoutingIDs",
		Members:          []dictionary.Member{{Kind: dictionary.MemberField, Name: "RoutingID"}},
		NumberOfElements: &count,
	}))

	d.SetFixVersion(dictionary.Version{Major: 4, Minor: 4})
	d.SetHeader([]dictionary.Member{
		{Kind: dictionary.MemberField, Name: "BeginString", Required: true},
		{Kind: dictionary.MemberField, Name: "BodyLength", Required: true},
		{Kind: dictionary.MemberField, Name: "MsgType", Required: true},
	})
	d.SetTrailer([]dictionary.Member{{Kind: dictionary.MemberField, Name: "CheckSum", Required: true}})
	require.NoError(t, d.AddMessage(dictionary.Message{
		Name: "NewOrderSingle", MsgType: "D", MsgCat: dictionary.MsgCatApp,
		Members: []dictionary.Member{
			{Kind: dictionary.MemberField, Name: "ClOrdID", Required: true},
			{Kind: dictionary.MemberField, Name: "Side", Required: false},
			{Kind: dictionary.MemberComponent, Name: "NoRoutingIDs", Required: false},
			{Kind: dictionary.MemberField, Name: "SignatureLength", Required: false},
			{Kind: dictionary.MemberField, Name: "Signature", Required: false},
		},
	}))

	s, err := schema.Compile(d)
	require.NoError(t, err)
	return s
}

func generated(t *testing.T, s *schema.Schema) map[string]string {
	t.Helper()
	outputs, err := Generator{}.Generate(s, generate.Options{Package: "fix44", Out: "gen"})
	require.NoError(t, err)

	files := make(map[string]string, len(outputs))
	for _, o := range outputs {
		files[filepath.Base(o.Path)] = string(o.Content)
	}
	return files
}

func TestGenerateFileSet(t *testing.T) {
	files := generated(t, testSchema(t))

	require.Len(t, files, 4)
	for _, name := range []string{"fields.gen.go", "groups.gen.go", "messages.gen.go", "basic_types.go"} {
		content, ok := files[name]
		require.True(t, ok, "missing %s", name)
		assert.True(t, strings.HasPrefix(content, "// Code generated by fixgen. DO NOT EDIT."), "%s missing header", name)
		assert.Contains(t, content, "package fix44")
	}
}

func TestGenerateFields(t *testing.T) {
	files := generated(t, testSchema(t))
	fields := files["fields.gen.go"]

	assert.Contains(t, fields, "type FieldTag TagNum")
	assert.Contains(t, fields, "FieldTagClOrdID FieldTag = 11")
	assert.Contains(t, fields, "FieldTagSide FieldTag = 54")

	assert.Contains(t, fields, "type Side byte")
	assert.Contains(t, fields, "SideBuy Side = '1'")
	assert.Contains(t, fields, "SideSell Side = '2'")

	assert.Contains(t, fields, "type ParseRejectReason int")
	assert.Contains(t, fields, "func SessionRejectReasonFromParse(r ParseRejectReason) SessionRejectReason {")
	assert.Contains(t, fields, "case ParseRejectReasonInvalidMsgType:")
}

func TestGenerateGroups(t *testing.T) {
	files := generated(t, testSchema(t))
	groups := files["groups.gen.go"]

	assert.Contains(t, groups, "type NoRoutingIDs struct {")
	assert.Contains(t, groups, "RoutingID *FixString")
}

func TestGenerateMessages(t *testing.T) {
	files := generated(t, testSchema(t))
	messages := files["messages.gen.go"]

	assert.Contains(t, messages, `const BeginString = "FIX.4.4"`)
	assert.Contains(t, messages, "MsgTypePosition = 3")
	assert.Contains(t, messages, "type Header struct {")
	assert.Contains(t, messages, "type Trailer struct {")

	assert.Contains(t, messages, "type NewOrderSingle struct {")
	// Required scalar stays a value, optional enum becomes a pointer,
	// the group count field has no storage, the data half of a
	// length/data pair is the stored field.
	assert.Contains(t, messages, "ClOrdID FixString")
	assert.Contains(t, messages, "Side *Side")
	assert.Contains(t, messages, "NoRoutingIDs []NoRoutingIDs")
	assert.Contains(t, messages, "Signature Data")
	assert.NotContains(t, messages, "SignatureLength")

	assert.Contains(t, messages, `func (m *NewOrderSingle) MsgType() FixString { return "D" }`)
	assert.Contains(t, messages, "func (m *NewOrderSingle) MsgCat() MsgCat { return MsgCatApp }")
	assert.Contains(t, messages, "type Message interface {")
	assert.Contains(t, messages, "func MsgCatForMsgType(msgType FixString) (MsgCat, bool) {")
}

func TestGenerateBasicTypes(t *testing.T) {
	files := generated(t, testSchema(t))
	types := files["basic_types.go"]

	assert.Contains(t, types, "package fix44")
	assert.NotContains(t, types, "package fixtypes")
	assert.Contains(t, types, "FixString    = string")
	assert.Contains(t, types, "type MsgCat int")
}

func TestGenerateRequiresPackage(t *testing.T) {
	_, err := Generator{}.Generate(testSchema(t), generate.Options{Out: "gen"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "package name is required")
}

func TestGenerateNoOut(t *testing.T) {
	outputs, err := Generator{}.Generate(testSchema(t), generate.Options{Package: "fix44"})
	require.NoError(t, err)
	assert.Nil(t, outputs)
}
