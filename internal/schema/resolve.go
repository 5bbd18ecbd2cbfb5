package schema

import (
	"errors"
	"fmt"

	"github.com/maciejwalesiak/easyfix/internal/dictionary"
)

// Configuration errors. All of them mean the dictionary is inconsistent
// and abort compilation.
var (
	ErrUnknownField     = errors.New("unknown field")
	ErrUnknownComponent = errors.New("unknown component")
	// ErrDanglingLength reports a Length field that ends a member list
	// with nothing left to pair with. Dropping it silently would lose a
	// declared field, so it is rejected instead.
	ErrDanglingLength = errors.New("length field has no following member")
	// ErrComponentCycle reports a component whose member graph reaches
	// back to itself. Validate only checks that names resolve, so cycles
	// surface here, at resolution time.
	ErrComponentCycle = errors.New("component cycle")
)

// resolver flattens raw member lists into ordered descriptor lists. The
// groups table memoizes group element schemas by component name for the
// lifetime of one compilation: the first resolution wins and later
// references reuse it verbatim. The resolving set tracks components on
// the current resolution path; re-entering one is a cycle.
type resolver struct {
	dict       *dictionary.Dictionary
	groups     map[string]*Struct
	groupOrder []string
	resolving  map[string]bool
}

func newResolver(dict *dictionary.Dictionary) *resolver {
	return &resolver{
		dict:      dict,
		groups:    make(map[string]*Struct),
		resolving: make(map[string]bool),
	}
}

// resolveMembers walks members in declaration order with one position
// of lookahead (a Length field cannot be classified without seeing the
// next member).
func (r *resolver) resolveMembers(members []dictionary.Member) ([]MemberDesc, error) {
	var descs []MemberDesc
	for i := 0; i < len(members); i++ {
		m := members[i]
		switch m.Kind {
		case dictionary.MemberComponent:
			compDescs, err := r.resolveComponent(m)
			if err != nil {
				return nil, err
			}
			descs = append(descs, compDescs...)
		case dictionary.MemberField:
			var next *dictionary.Member
			if i+1 < len(members) {
				next = &members[i+1]
			}
			fieldDescs, consumedNext, err := r.resolveField(m, next)
			if err != nil {
				return nil, err
			}
			descs = append(descs, fieldDescs...)
			if consumedNext {
				i++
			}
		}
	}
	return descs, nil
}

// resolveComponent splices a plain component inline or materializes a
// repeating group.
func (r *resolver) resolveComponent(m dictionary.Member) ([]MemberDesc, error) {
	comp, ok := r.dict.Component(m.Name)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownComponent, m.Name)
	}
	if r.resolving[comp.Name] {
		return nil, fmt.Errorf("%w: %q reaches itself", ErrComponentCycle, comp.Name)
	}

	// Components without a cardinality field are pure textual macros:
	// their members resolve as if declared at the call site.
	if comp.NumberOfElements == nil {
		r.resolving[comp.Name] = true
		descs, err := r.resolveMembers(comp.Members)
		delete(r.resolving, comp.Name)
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", comp.Name, err)
		}
		return descs, nil
	}

	countField, ok := r.dict.FieldByName(comp.NumberOfElements.Name)
	if !ok {
		return nil, fmt.Errorf("group %s: %w %q", comp.Name, ErrUnknownField, comp.NumberOfElements.Name)
	}

	group, ok := r.groups[comp.Name]
	if !ok {
		r.resolving[comp.Name] = true
		elems, err := r.resolveMembers(comp.Members)
		delete(r.resolving, comp.Name)
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", comp.Name, err)
		}
		group = newGroupStruct(comp.Name, elems)
		r.groups[comp.Name] = group
		r.groupOrder = append(r.groupOrder, comp.Name)
	}

	// The count field inherits requiredness from the component
	// membership: a required group makes its cardinality field
	// required no matter how the field itself is declared.
	count := numInGroupMember(countField.Name, countField.Number, m.Required)
	self := groupMember(comp.Name, countField.Number, m.Required)

	return []MemberDesc{
		{Kind: KindSimple, Simple: count},
		groupDesc(count, self, elementTags(group.Members)),
	}, nil
}

// resolveField classifies one field member, consulting the next member
// when the field is Length-typed. It reports whether the next member
// was consumed by a Length/Data pairing.
func (r *resolver) resolveField(m dictionary.Member, next *dictionary.Member) ([]MemberDesc, bool, error) {
	field, ok := r.dict.FieldByName(m.Name)
	if !ok {
		return nil, false, fmt.Errorf("%w %q", ErrUnknownField, m.Name)
	}

	switch field.Type {
	case dictionary.TypeLength:
		if next == nil {
			return nil, false, fmt.Errorf("%w: %s(%d)", ErrDanglingLength, field.Name, field.Number)
		}
		if next.Kind == dictionary.MemberField {
			nextField, ok := r.dict.FieldByName(next.Name)
			if !ok {
				return nil, false, fmt.Errorf("%w %q", ErrUnknownField, next.Name)
			}
			if nextField.Type == dictionary.TypeData || nextField.Type == dictionary.TypeXMLData {
				length := SimpleMember{Name: field.Name, Tag: field.Number, Required: m.Required, Type: dictionary.TypeLength}
				data := SimpleMember{Name: nextField.Name, Tag: nextField.Number, Required: next.Required, Type: nextField.Type}
				return []MemberDesc{lengthDataDesc(length, data)}, true, nil
			}
		}
		// Pairing only triggers on immediate adjacency.
		return []MemberDesc{simpleDesc(field.Name, field.Number, m.Required, field.Type)}, false, nil

	case dictionary.TypeBoolean:
		// Booleans keep the two-valued primitive even when the
		// dictionary names their values.
		return []MemberDesc{simpleDesc(field.Name, field.Number, m.Required, field.Type)}, false, nil

	default:
		if len(field.Values) > 0 {
			return []MemberDesc{enumerationDesc(field.Name, field.Number, m.Required, field.Type)}, false, nil
		}
		return []MemberDesc{simpleDesc(field.Name, field.Number, m.Required, field.Type)}, false, nil
	}
}

// elementTags collects the tags of the Simple members directly inside a
// group element schema. Nested groups contribute through their count
// field's companion descriptor.
func elementTags(members []MemberDesc) []uint16 {
	var tags []uint16
	for _, m := range members {
		if m.Kind == KindSimple {
			tags = append(tags, m.Simple.Tag)
		}
	}
	return tags
}
