package hir

import (
	"fmt"
	"regexp/syntax"
	"unicode"

	"github.com/coregx/hirprog/internal/conv"
)

// FromSyntax converts a parsed regexp/syntax.Regexp into the HIR this
// package's compiler consumes. re should come from syntax.Parse with
// syntax.Perl (or a compatible flag set); FromSyntax does not itself parse
// pattern text.
func FromSyntax(re *syntax.Regexp) (*Node, error) {
	return fromSyntax(re)
}

func fromSyntax(re *syntax.Regexp) (*Node, error) {
	switch re.Op {
	case syntax.OpEmptyMatch, syntax.OpNoMatch:
		return Empty(), nil

	case syntax.OpLiteral:
		return literalFromSyntax(re)

	case syntax.OpCharClass:
		return Class(runeClassFromSyntax(re.Rune)), nil

	case syntax.OpAnyChar:
		return Class([][2]rune{{0, 0x10FFFF}}), nil

	case syntax.OpAnyCharNotNL:
		return Class([][2]rune{{0, '\n' - 1}, {'\n' + 1, 0x10FFFF}}), nil

	case syntax.OpBeginLine, syntax.OpBeginText:
		return Look(LookStart), nil

	case syntax.OpEndLine, syntax.OpEndText:
		return Look(LookEnd), nil

	case syntax.OpWordBoundary:
		return Look(LookWordAscii), nil

	case syntax.OpNoWordBoundary:
		return Look(LookWordAsciiNegate), nil

	case syntax.OpCapture:
		sub, err := fromSyntax(re.Sub[0])
		if err != nil {
			return nil, err
		}
		return Capture(re.Cap, re.Name, sub), nil

	case syntax.OpStar:
		sub, err := fromSyntax(re.Sub[0])
		if err != nil {
			return nil, err
		}
		return Repeat(0, nil, greedy(re), sub), nil

	case syntax.OpPlus:
		sub, err := fromSyntax(re.Sub[0])
		if err != nil {
			return nil, err
		}
		return Repeat(1, nil, greedy(re), sub), nil

	case syntax.OpQuest:
		sub, err := fromSyntax(re.Sub[0])
		if err != nil {
			return nil, err
		}
		max := uint32(1)
		return Repeat(0, &max, greedy(re), sub), nil

	case syntax.OpRepeat:
		if re.Max == 0 {
			// e{0,0} matches only the empty string.
			return Empty(), nil
		}
		sub, err := fromSyntax(re.Sub[0])
		if err != nil {
			return nil, err
		}
		var max *uint32
		if re.Max >= 0 {
			m := conv.IntToUint32(re.Max)
			max = &m
		}
		return Repeat(conv.IntToUint32(re.Min), max, greedy(re), sub), nil

	case syntax.OpConcat:
		subs, err := fromSyntaxAll(re.Sub)
		if err != nil {
			return nil, err
		}
		return Concat(subs...), nil

	case syntax.OpAlternate:
		subs, err := fromSyntaxAll(re.Sub)
		if err != nil {
			return nil, err
		}
		return Alternation(subs...), nil

	default:
		return nil, fmt.Errorf("hir: unsupported regexp/syntax op %v", re.Op)
	}
}

func fromSyntaxAll(subs []*syntax.Regexp) ([]*Node, error) {
	out := make([]*Node, len(subs))
	for i, s := range subs {
		n, err := fromSyntax(s)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func greedy(re *syntax.Regexp) bool {
	return re.Flags&syntax.NonGreedy == 0
}

// literalFromSyntax builds a Literal node, or, when the literal was parsed
// case-insensitively, a Concat of per-rune Class nodes covering both cases
// (a single Literal node can't represent a set of strings).
func literalFromSyntax(re *syntax.Regexp) (*Node, error) {
	if re.Flags&syntax.FoldCase == 0 {
		return Literal(runesToUTF8(re.Rune)), nil
	}
	subs := make([]*Node, 0, len(re.Rune))
	for _, r := range re.Rune {
		upper, lower := unicode.ToUpper(r), unicode.ToLower(r)
		if upper == lower {
			subs = append(subs, Literal(runesToUTF8([]rune{r})))
			continue
		}
		ranges := [][2]rune{{lower, lower}, {upper, upper}}
		subs = append(subs, Class(ranges))
	}
	return Concat(subs...), nil
}

func runesToUTF8(runes []rune) []byte {
	out := make([]byte, 0, len(runes))
	for _, r := range runes {
		out = append(out, []byte(string(r))...)
	}
	return out
}

// runeClassFromSyntax converts regexp/syntax's flat [lo0,hi0,lo1,hi1,...]
// rune-pair encoding into this package's [][2]rune ranges.
func runeClassFromSyntax(pairs []rune) [][2]rune {
	out := make([][2]rune, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, [2]rune{pairs[i], pairs[i+1]})
	}
	return out
}
