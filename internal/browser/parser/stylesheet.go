// internal/browser/parser/stylesheet.go
package parser

import "strings"

// StyleSheet is the ordered list of rules parsed from one source.
// Rule order is preserved; cascade ordering is the consumer's job.
type StyleSheet struct {
	Rules []Rule
}

// Rule pairs a selector list with the declarations it applies.
type Rule struct {
	Selectors    []Selector
	Declarations []Declaration
}

// Selector is a sequence of simple selectors plus the raw combinator
// characters seen while scanning it. Combinators are recorded, never applied.
type Selector struct {
	Simple      []SimpleSelector
	Combinators []rune
}

// SimpleSelector is tag?('#'id | '.'class)*. An empty TagName or ID means absent.
type SimpleSelector struct {
	TagName string
	ID      string
	Classes []string
}

// Declaration is a lowercase property name and its typed value.
type Declaration struct {
	Property string
	Value    Value
}

// IsEmpty reports whether the simple selector has no tag, id or class.
func (s SimpleSelector) IsEmpty() bool {
	return s.TagName == "" && s.ID == "" && len(s.Classes) == 0
}

// IsEmpty reports whether the selector holds no simple selector.
func (s Selector) IsEmpty() bool {
	return len(s.Simple) == 0
}

// Specificity returns the (ids, classes, tags) triple summed over the
// selector's simple selectors.
func (s Selector) Specificity() (a, b, c int) {
	for _, simple := range s.Simple {
		sa, sb, sc := simple.Specificity()
		a += sa
		b += sb
		c += sc
	}
	return a, b, c
}

// Specificity calculates the triple for a single simple selector.
func (s SimpleSelector) Specificity() (a, b, c int) {
	if s.ID != "" {
		a = 1
	}
	b = len(s.Classes)
	if s.TagName != "" {
		c = 1
	}
	return a, b, c
}

// -- Diagnostic projection --

func (sheet StyleSheet) String() string {
	parts := make([]string, 0, len(sheet.Rules))
	for _, rule := range sheet.Rules {
		parts = append(parts, rule.String())
	}
	return strings.Join(parts, "\n\n")
}

func (r Rule) String() string {
	var sb strings.Builder
	for i, sel := range r.Selectors {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(sel.String())
	}
	sb.WriteString(" {\n")
	for _, decl := range r.Declarations {
		sb.WriteString("    ")
		sb.WriteString(decl.String())
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String()
}

func (s Selector) String() string {
	parts := make([]string, 0, len(s.Simple))
	for _, simple := range s.Simple {
		parts = append(parts, simple.String())
	}
	return strings.Join(parts, ", ")
}

func (s SimpleSelector) String() string {
	var sb strings.Builder
	sb.WriteString(s.TagName)
	if s.ID != "" {
		sb.WriteByte('#')
		sb.WriteString(s.ID)
	}
	for _, class := range s.Classes {
		sb.WriteByte('.')
		sb.WriteString(class)
	}
	return sb.String()
}

func (d Declaration) String() string {
	if d.Value == nil {
		return d.Property + ": "
	}
	return d.Property + ": " + d.Value.String()
}
