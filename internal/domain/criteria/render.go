package criteria

import (
	"fmt"
	"strings"
)

// Wildcard is the open-bound marker in range expressions.
const Wildcard = "*"

type bracketStyle int

const (
	inclusive bracketStyle = iota // [lo TO hi]
	exclusive                     // {lo TO hi}
)

// appendFragment wraps fragment in its own parentheses and AND-joins it to
// any prior non-empty selector. The result stays parenthesis-balanced as
// long as fragment is.
func appendFragment(selector, fragment string) string {
	wrapped := "(" + fragment + ")"
	if strings.TrimSpace(selector) == "" {
		return wrapped
	}
	return selector + " AND " + wrapped
}

// renderPairs renders conditions as AND-joined `field:value` tokens.
// A Span value inside a condition renders with inclusive TO syntax.
func renderPairs(conds []Condition) string {
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		parts = append(parts, renderPair(c.Field, c.Value))
	}
	return strings.Join(parts, " AND ")
}

func renderPair(field string, value any) string {
	if s, ok := value.(Span); ok {
		return fmt.Sprintf("%s:[%s TO %s]", field, renderValue(s.Lo), renderValue(s.Hi))
	}
	return fmt.Sprintf("%s:%s", field, renderValue(value))
}

// renderRange renders `field:[lo TO hi]` or `field:{lo TO hi}` depending on
// the bracket style. Square brackets are inclusive, curly braces exclusive.
func renderRange(field string, lo, hi any, style bracketStyle) string {
	open, shut := "[", "]"
	if style == exclusive {
		open, shut = "{", "}"
	}
	return fmt.Sprintf("%s:%s%s TO %s%s", field, open, renderValue(lo), renderValue(hi), shut)
}

func renderValue(v any) string {
	if v == nil {
		return Wildcard
	}
	return fmt.Sprintf("%v", v)
}

func renderSort(cl SortClause) string {
	dir := strings.ToLower(string(cl.Direction))
	if dir == "" {
		dir = string(Asc)
	}
	return cl.Field + " " + dir
}
