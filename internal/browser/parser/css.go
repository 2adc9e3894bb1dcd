// internal/browser/parser/css.go
package parser

import (
	"strings"

	"go.uber.org/zap"
)

// Parser holds the state of the CSS parser. It never fails: malformed input
// degrades to best-effort defaults.
type Parser struct {
	input  string
	pos    int
	logger *zap.Logger
}

// NewParser creates a parser over input. A nil logger disables logging.
func NewParser(input string, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{input: input, logger: logger.Named("css-parser")}
}

// Parse is a shorthand for NewParser(input, nil).Parse().
func Parse(input string) StyleSheet {
	return NewParser(input, nil).Parse()
}

// ParseInlineDeclarations parses the body of a style attribute, e.g.
// "width: 10px; color: red".
func ParseInlineDeclarations(input string, logger *zap.Logger) []Declaration {
	return NewParser(input+"}", logger).parseDeclarations()
}

// Parse consumes the whole input and returns the rules in source order.
func (p *Parser) Parse() StyleSheet {
	var sheet StyleSheet
	for {
		p.consumeWhitespace()
		if p.eof() {
			break
		}
		if p.startsWith("/*") {
			p.skipComment()
			continue
		}
		if p.currentChar() == '@' {
			p.skipAtRule()
			continue
		}

		selectors := p.parseSelectors()
		declarations := p.parseDeclarations()
		sheet.Rules = append(sheet.Rules, Rule{Selectors: selectors, Declarations: declarations})
	}

	p.logger.Debug("Parsed stylesheet", zap.Int("bytes", len(p.input)), zap.Int("rules", len(sheet.Rules)))
	return sheet
}

// parseSelectors reads a comma-separated selector list and consumes the '{'
// that terminates it.
func (p *Parser) parseSelectors() []Selector {
	var selectors []Selector
	for !p.eof() && p.currentChar() != '{' {
		sel := p.parseSelector()
		if !sel.IsEmpty() {
			selectors = append(selectors, sel)
		}

		p.consumeWhitespace()
		if !p.eof() && p.currentChar() == ',' {
			p.consumeChar()
		}
	}
	p.consumeChar() // '{'
	return selectors
}

// parseSelector parses tag?('#'id | '.'class)* up to whitespace, ',' or '{'.
func (p *Parser) parseSelector() Selector {
	var sel Selector
	var simple SimpleSelector

	p.consumeWhitespace()
	if !p.eof() && isValidIdentifierStart(p.currentChar()) {
		simple.TagName = p.parseIdentifier()
	}

	multipleIDs := false
	for !p.eof() {
		ch := p.currentChar()
		if ch == ',' || ch == '{' {
			break
		}
		if isWhitespace(ch) {
			// A spaced combinator still belongs to this selector.
			if !p.combinatorFollows() {
				break
			}
			p.consumeWhitespace()
			ch = p.currentChar()
		}

		switch ch {
		case '#':
			p.consumeChar()
			id := p.parseIdentifier()
			if simple.ID != "" || multipleIDs {
				// A second id makes the whole simple selector id-less.
				simple.ID = ""
				multipleIDs = true
			} else {
				simple.ID = id
			}
		case '.':
			p.consumeChar()
			if class := p.parseIdentifier(); class != "" {
				simple.Classes = append(simple.Classes, class)
			}
		default:
			skipped := p.consumeWhile(func(c byte) bool { return c != ',' && c != '{' })
			sel.Combinators = append(sel.Combinators, combinatorsIn(skipped)...)
			p.logger.Debug("Skipping unsupported selector text", zap.String("text", skipped))
		}
	}

	if !simple.IsEmpty() {
		sel.Simple = append(sel.Simple, simple)
	}
	return sel
}

// parseDeclarations reads declarations up to and including the closing '}'.
func (p *Parser) parseDeclarations() []Declaration {
	var declarations []Declaration
	for {
		p.consumeWhitespace()
		if p.eof() || p.currentChar() == '}' {
			break
		}
		if p.startsWith("/*") {
			p.skipComment()
			continue
		}

		property := strings.ToLower(strings.TrimSpace(p.consumeWhile(func(c byte) bool {
			return c != ':' && c != ';' && c != '}'
		})))
		if p.eof() || p.currentChar() != ':' {
			// No colon: drop the fragment and resume after the next ';'.
			p.logger.Debug("Skipping declaration without value", zap.String("property", property))
			if !p.eof() && p.currentChar() == ';' {
				p.consumeChar()
			}
			continue
		}
		p.consumeChar() // ':'
		p.consumeWhitespace()

		raw := p.consumeWhile(func(c byte) bool { return c != ';' && c != '\n' && c != '}' })
		value := strings.ToLower(strings.TrimSpace(raw))
		decl := Declaration{Property: property, Value: TypeValue(property, value)}

		if !p.eof() && p.currentChar() == ';' {
			declarations = appendDeclaration(declarations, decl)
			p.consumeChar()
			continue
		}
		p.consumeWhitespace()
		if !p.eof() && p.currentChar() == '}' {
			// The last declaration of a block may omit its ';'.
			declarations = appendDeclaration(declarations, decl)
			continue
		}
		p.logger.Debug("Dropping unterminated declaration", zap.String("property", property))
	}

	p.consumeChar() // '}'
	return declarations
}

func appendDeclaration(decls []Declaration, decl Declaration) []Declaration {
	if decl.Property == "" {
		return decls
	}
	return append(decls, decl)
}

// combinatorsIn extracts the raw combinator characters from skipped text.
func combinatorsIn(s string) []rune {
	var out []rune
	for _, r := range s {
		switch r {
		case '>', '+', '~':
			out = append(out, r)
		}
	}
	return out
}

// --- Lexer-like Helpers ---

// combinatorFollows reports whether the next non-whitespace character is
// '>', '+' or '~'. The position is not moved.
func (p *Parser) combinatorFollows() bool {
	i := p.pos
	for i < len(p.input) && isWhitespace(p.input[i]) {
		i++
	}
	if i >= len(p.input) {
		return false
	}
	switch p.input[i] {
	case '>', '+', '~':
		return true
	}
	return false
}

func (p *Parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *Parser) currentChar() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *Parser) consumeChar() byte {
	ch := p.currentChar()
	if !p.eof() {
		p.pos++
	}
	return ch
}

func (p *Parser) consumeWhile(cond func(byte) bool) string {
	start := p.pos
	for !p.eof() && cond(p.currentChar()) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *Parser) consumeWhitespace() {
	p.consumeWhile(isWhitespace)
}

func (p *Parser) startsWith(s string) bool {
	return strings.HasPrefix(p.input[p.pos:], s)
}

func (p *Parser) skipComment() {
	p.pos += 2
	end := strings.Index(p.input[p.pos:], "*/")
	if end == -1 {
		p.pos = len(p.input)
		return
	}
	p.pos += end + 2
}

func (p *Parser) skipBlock(open, close byte) {
	depth := 1
	for !p.eof() {
		c := p.consumeChar()
		if c == open {
			depth++
		} else if c == close {
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

func (p *Parser) skipAtRule() {
	start := p.pos
	p.consumeChar() // '@'
	name := p.parseIdentifier()
	for !p.eof() {
		ch := p.consumeChar()
		if ch == '{' {
			p.skipBlock('{', '}')
			break
		}
		if ch == ';' {
			break
		}
	}
	p.logger.Debug("Skipping @-rule", zap.String("rule", name), zap.Int("offset", start))
}

// parseIdentifier reads an identifier and lowercases it. It returns "" when
// the current character cannot start an identifier.
func (p *Parser) parseIdentifier() string {
	if p.eof() || !isValidIdentifierStart(p.currentChar()) {
		return ""
	}
	return strings.ToLower(p.consumeWhile(isValidIdentifierChar))
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}

func isValidIdentifierStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '-'
}

func isValidIdentifierChar(ch byte) bool {
	return isValidIdentifierStart(ch) || isDigit(ch)
}
