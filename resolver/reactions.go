package resolver

import (
	"strings"

	"github.com/cfdkit/matdb"
	"github.com/npillmayer/gorgo/terex"
)

// The reactions body is accepted as an opaque nested table. The resolver
// enumerates the mechanism, the reaction names and their named sub-fields,
// but never interprets stoichiometry semantics. Arbitrary residue is kept
// as verbatim list text.

func sublist(atom terex.Atom) *terex.GCons {
	if l, ok := atom.Data.(*terex.GCons); ok {
		return l
	}
	return nil
}

func symbolOf(atom terex.Atom) (string, bool) {
	s, ok := atom.Data.(string)
	return s, ok
}

// namesFromExprs recovers a (names …) list that arrived as a bare
// sub-expression.
func namesFromExprs(exprs []*terex.GCons) []string {
	for _, l := range exprs {
		if l == nil {
			continue
		}
		head, ok := symbolOf(l.Car)
		if !ok || head != "names" {
			continue
		}
		var names []string
		for cdr := l.Cdr; cdr != nil; cdr = cdr.Cdr {
			if s, ok := symbolOf(cdr.Car); ok {
				names = append(names, s)
			}
		}
		return names
	}
	return nil
}

// reactionsFromExprs walks a reactions table, e.g.
//
//	(finite-rate (r1 (stoichiometry …) (arrhenius …)) (r2 …))
func reactionsFromExprs(exprs []*terex.GCons) matdb.Reactions {
	rx := matdb.Reactions{}
	for _, l := range exprs {
		if l == nil {
			continue
		}
		if mech, ok := symbolOf(l.Car); ok && rx.Mechanism == "" {
			rx.Mechanism = mech
		}
		for cdr := l.Cdr; cdr != nil; cdr = cdr.Cdr {
			entry := sublist(cdr.Car)
			if entry == nil {
				continue
			}
			rx.Entries = append(rx.Entries, reactionFromList(entry))
		}
	}
	return rx
}

func reactionFromList(l *terex.GCons) matdb.Reaction {
	reaction := matdb.Reaction{}
	if name, ok := symbolOf(l.Car); ok {
		reaction.Name = name
	}
	for cdr := l.Cdr; cdr != nil; cdr = cdr.Cdr {
		field := sublist(cdr.Car)
		if field == nil {
			continue
		}
		reaction.Fields = append(reaction.Fields, fieldFromList(field))
	}
	return reaction
}

func fieldFromList(l *terex.GCons) matdb.ReactionField {
	field := matdb.ReactionField{}
	if name, ok := symbolOf(l.Car); ok {
		field.Name = name
	}
	var residue []string
	for cdr := l.Cdr; cdr != nil; cdr = cdr.Cdr {
		switch v := cdr.Car.Data.(type) {
		case float64:
			field.Values = append(field.Values, v)
		case string:
			field.Symbols = append(field.Symbols, v)
		case *terex.GCons:
			residue = append(residue, v.ListString())
		default:
			tracer().Debugf("reaction field %q: ignoring %v", field.Name, cdr.Car)
		}
	}
	field.Text = strings.Join(residue, " ")
	return field
}
