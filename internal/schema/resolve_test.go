package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maciejwalesiak/easyfix/internal/dictionary"
)

func testDict(t *testing.T) *dictionary.Dictionary {
	t.Helper()
	d := dictionary.New()
	fields := []dictionary.Field{
		{Number: 1, Name: "Account", Type: dictionary.TypeString},
		{Number: 11, Name: "ClOrdID", Type: dictionary.TypeString},
		{Number: 38, Name: "OrderQty", Type: dictionary.TypeQty},
		{Number: 43, Name: "PossDupFlag", Type: dictionary.TypeBoolean, Values: []dictionary.Value{
			{Enum: "Y", Description: "YES"},
			{Enum: "N", Description: "NO"},
		}},
		{Number: 44, Name: "Price", Type: dictionary.TypePrice},
		{Number: 54, Name: "Side", Type: dictionary.TypeChar, Values: []dictionary.Value{
			{Enum: "1", Description: "BUY"},
			{Enum: "2", Description: "SELL"},
		}},
		{Number: 78, Name: "NoAllocs", Type: dictionary.TypeNumInGroup},
		{Number: 79, Name: "AllocAccount", Type: dictionary.TypeString},
		{Number: 80, Name: "AllocQty", Type: dictionary.TypeQty},
		{Number: 89, Name: "Signature", Type: dictionary.TypeData},
		{Number: 93, Name: "SignatureLength", Type: dictionary.TypeLength},
		{Number: 212, Name: "XmlDataLen", Type: dictionary.TypeLength},
		{Number: 213, Name: "XmlData", Type: dictionary.TypeXMLData},
		{Number: 215, Name: "NoRoutingIDs", Type: dictionary.TypeNumInGroup},
		{Number: 216, Name: "RoutingType", Type: dictionary.TypeInt},
		{Number: 217, Name: "RoutingID", Type: dictionary.TypeString},
	}
	for _, f := range fields {
		require.NoError(t, d.AddField(f))
	}
	return d
}

func field(name string, required bool) dictionary.Member {
	return dictionary.Member{Kind: dictionary.MemberField, Name: name, Required: required}
}

func component(name string, required bool) dictionary.Member {
	return dictionary.Member{Kind: dictionary.MemberComponent, Name: name, Required: required}
}

func TestResolveSimpleAndEnumeration(t *testing.T) {
	d := testDict(t)
	r := newResolver(d)

	descs, err := r.resolveMembers([]dictionary.Member{
		field("Account", true),
		field("Side", true),
		field("PossDupFlag", false),
	})
	require.NoError(t, err)
	require.Len(t, descs, 3)

	assert.Equal(t, KindSimple, descs[0].Kind)
	assert.Equal(t, SimpleMember{Name: "Account", Tag: 1, Required: true, Type: dictionary.TypeString}, descs[0].Simple)

	assert.Equal(t, KindEnumeration, descs[1].Kind)
	assert.Equal(t, SimpleMember{Name: "Side", Tag: 54, Required: true, Type: dictionary.TypeChar}, descs[1].Simple)

	// Booleans keep the primitive type even with declared values.
	assert.Equal(t, KindSimple, descs[2].Kind)
	assert.Equal(t, dictionary.TypeBoolean, descs[2].Simple.Type)
	assert.False(t, descs[2].Simple.Required)
}

func TestResolveComponentInlineTransparency(t *testing.T) {
	d := testDict(t)
	require.NoError(t, d.AddComponent(dictionary.Component{
		Name:    "CommissionData",
		Members: []dictionary.Member{field("Account", false), field("Price", true)},
	}))

	withComponent, err := newResolver(d).resolveMembers([]dictionary.Member{
		field("ClOrdID", true),
		component("CommissionData", true),
		field("Side", true),
	})
	require.NoError(t, err)

	direct, err := newResolver(d).resolveMembers([]dictionary.Member{
		field("ClOrdID", true),
		field("Account", false),
		field("Price", true),
		field("Side", true),
	})
	require.NoError(t, err)

	assert.Equal(t, direct, withComponent)
}

func TestResolveLengthDataPairing(t *testing.T) {
	d := testDict(t)
	r := newResolver(d)

	descs, err := r.resolveMembers([]dictionary.Member{
		field("SignatureLength", false),
		field("Signature", false),
		field("Account", true),
	})
	require.NoError(t, err)
	require.Len(t, descs, 2)

	assert.Equal(t, KindLengthData, descs[0].Kind)
	assert.Equal(t, SimpleMember{Name: "SignatureLength", Tag: 93, Required: false, Type: dictionary.TypeLength}, descs[0].Length)
	assert.Equal(t, SimpleMember{Name: "Signature", Tag: 89, Required: false, Type: dictionary.TypeData}, descs[0].Data)

	// The data member was consumed by the pairing; the walk resumes
	// after it.
	assert.Equal(t, KindSimple, descs[1].Kind)
	assert.Equal(t, "Account", descs[1].Simple.Name)
}

func TestResolveLengthXMLDataPairing(t *testing.T) {
	d := testDict(t)
	descs, err := newResolver(d).resolveMembers([]dictionary.Member{
		field("XmlDataLen", false),
		field("XmlData", false),
	})
	require.NoError(t, err)
	require.Len(t, descs, 1)
	assert.Equal(t, KindLengthData, descs[0].Kind)
	assert.Equal(t, dictionary.TypeXMLData, descs[0].Data.Type)
}

func TestResolveLengthNotFollowedByData(t *testing.T) {
	d := testDict(t)
	descs, err := newResolver(d).resolveMembers([]dictionary.Member{
		field("SignatureLength", true),
		field("Account", true),
	})
	require.NoError(t, err)
	require.Len(t, descs, 2)

	assert.Equal(t, KindSimple, descs[0].Kind)
	assert.Equal(t, SimpleMember{Name: "SignatureLength", Tag: 93, Required: true, Type: dictionary.TypeLength}, descs[0].Simple)
	assert.Equal(t, "Account", descs[1].Simple.Name)
}

func TestResolveLengthFollowedByComponent(t *testing.T) {
	d := testDict(t)
	require.NoError(t, d.AddComponent(dictionary.Component{
		Name:    "CommissionData",
		Members: []dictionary.Member{field("Price", true)},
	}))

	descs, err := newResolver(d).resolveMembers([]dictionary.Member{
		field("SignatureLength", false),
		component("CommissionData", false),
	})
	require.NoError(t, err)
	require.Len(t, descs, 2)
	assert.Equal(t, KindSimple, descs[0].Kind)
	assert.Equal(t, dictionary.TypeLength, descs[0].Simple.Type)
}

func TestResolveDanglingLength(t *testing.T) {
	d := testDict(t)
	_, err := newResolver(d).resolveMembers([]dictionary.Member{
		field("Account", true),
		field("SignatureLength", false),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDanglingLength))
}

func addRoutingGroup(t *testing.T, d *dictionary.Dictionary) {
	t.Helper()
	count := field("NoRoutingIDs", false)
	require.NoError(t, d.AddComponent(dictionary.Component{
		Name:             "NoRoutingIDs",
		Members:          []dictionary.Member{field("RoutingType", false), field("RoutingID", false)},
		NumberOfElements: &count,
	}))
}

func TestResolveGroup(t *testing.T) {
	d := testDict(t)
	addRoutingGroup(t, d)

	descs, err := newResolver(d).resolveMembers([]dictionary.Member{
		component("NoRoutingIDs", true),
	})
	require.NoError(t, err)
	require.Len(t, descs, 2)

	count := descs[0]
	assert.Equal(t, KindSimple, count.Kind)
	assert.Equal(t, SimpleMember{Name: "NoRoutingIDs", Tag: 215, Required: true, Type: dictionary.TypeNumInGroup}, count.Simple)

	group := descs[1]
	assert.Equal(t, KindGroup, group.Kind)
	assert.Equal(t, count.Simple, group.NumInGroup)
	assert.Equal(t, SimpleMember{Name: "NoRoutingIDs", Tag: 215, Required: true, Type: dictionary.TypeNumInGroup}, group.Group)
	assert.Equal(t, []uint16{216, 217}, group.ElementTags)
}

func TestResolveGroupCountRequiredFollowsMembership(t *testing.T) {
	d := testDict(t)
	// The count field member inside the component says optional; the
	// referencing member decides.
	addRoutingGroup(t, d)

	required, err := newResolver(d).resolveMembers([]dictionary.Member{component("NoRoutingIDs", true)})
	require.NoError(t, err)
	assert.True(t, required[0].Simple.Required)
	assert.True(t, required[1].NumInGroup.Required)

	optional, err := newResolver(d).resolveMembers([]dictionary.Member{component("NoRoutingIDs", false)})
	require.NoError(t, err)
	assert.False(t, optional[0].Simple.Required)
	assert.False(t, optional[1].NumInGroup.Required)
}

func TestResolveGroupThreeScalars(t *testing.T) {
	d := testDict(t)
	count := field("NoAllocs", false)
	require.NoError(t, d.AddComponent(dictionary.Component{
		Name: "NoAllocs",
		Members: []dictionary.Member{
			field("AllocAccount", false),
			field("AllocQty", false),
			field("Account", false),
		},
		NumberOfElements: &count,
	}))

	descs, err := newResolver(d).resolveMembers([]dictionary.Member{component("NoAllocs", true)})
	require.NoError(t, err)
	require.Len(t, descs, 2)
	assert.Equal(t, KindSimple, descs[0].Kind)
	assert.Equal(t, KindGroup, descs[1].Kind)
	assert.Equal(t, []uint16{79, 80, 1}, descs[1].ElementTags)
}

func TestResolveGroupMemoization(t *testing.T) {
	d := testDict(t)
	addRoutingGroup(t, d)
	r := newResolver(d)

	_, err := r.resolveMembers([]dictionary.Member{component("NoRoutingIDs", true)})
	require.NoError(t, err)
	first := r.groups["NoRoutingIDs"]
	require.NotNil(t, first)

	_, err = r.resolveMembers([]dictionary.Member{component("NoRoutingIDs", false)})
	require.NoError(t, err)

	require.Len(t, r.groups, 1)
	assert.Same(t, first, r.groups["NoRoutingIDs"])
	assert.Equal(t, []string{"NoRoutingIDs"}, r.groupOrder)
}

func TestResolveNestedGroupElementTags(t *testing.T) {
	d := testDict(t)
	addRoutingGroup(t, d)
	count := field("NoAllocs", false)
	require.NoError(t, d.AddComponent(dictionary.Component{
		Name: "NoAllocs",
		Members: []dictionary.Member{
			field("AllocAccount", false),
			component("NoRoutingIDs", false),
		},
		NumberOfElements: &count,
	}))

	descs, err := newResolver(d).resolveMembers([]dictionary.Member{component("NoAllocs", false)})
	require.NoError(t, err)
	require.Len(t, descs, 2)

	// The nested group contributes through its count field's companion
	// descriptor.
	assert.Equal(t, []uint16{79, 215}, descs[1].ElementTags)
}

func TestResolveComponentCycle(t *testing.T) {
	d := testDict(t)
	require.NoError(t, d.AddComponent(dictionary.Component{
		Name:    "A",
		Members: []dictionary.Member{field("Account", false), component("B", false)},
	}))
	require.NoError(t, d.AddComponent(dictionary.Component{
		Name:    "B",
		Members: []dictionary.Member{component("A", false)},
	}))
	// Name-existence validation cannot see the cycle.
	require.NoError(t, d.Validate())

	_, err := newResolver(d).resolveMembers([]dictionary.Member{component("A", false)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrComponentCycle))
	assert.Contains(t, err.Error(), `"A" reaches itself`)
}

func TestResolveGroupCycle(t *testing.T) {
	d := testDict(t)
	count := field("NoAllocs", false)
	require.NoError(t, d.AddComponent(dictionary.Component{
		Name: "NoAllocs",
		Members: []dictionary.Member{
			field("AllocAccount", false),
			component("NoAllocs", false),
		},
		NumberOfElements: &count,
	}))
	require.NoError(t, d.Validate())

	_, err := newResolver(d).resolveMembers([]dictionary.Member{component("NoAllocs", false)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrComponentCycle))
}

func TestResolveUnknownReferences(t *testing.T) {
	d := testDict(t)

	_, err := newResolver(d).resolveMembers([]dictionary.Member{component("Nope", false)})
	assert.True(t, errors.Is(err, ErrUnknownComponent))

	_, err = newResolver(d).resolveMembers([]dictionary.Member{field("Nope", false)})
	assert.True(t, errors.Is(err, ErrUnknownField))
}
