// Package jsonpath implements the small JSONPath subset used by overlay targets.
//
// Supported syntax:
//   - $ (root)
//   - .field or ['field'] / ["field"] (child access)
//   - .* or [*] (wildcard, all children)
//   - [n] (array index, negative counts from the end)
//
// Wildcards over objects visit keys in sorted order so results are deterministic.
package jsonpath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrRoot is returned when an operation cannot act on the root node itself.
var ErrRoot = errors.New("jsonpath: operation not supported on root")

type segmentKind int

const (
	segChild segmentKind = iota
	segIndex
	segWildcard
)

type segment struct {
	kind  segmentKind
	key   string
	index int
}

// Path is a parsed JSONPath expression.
type Path struct {
	raw      string
	segments []segment
}

// String returns the original expression.
func (p *Path) String() string {
	return p.raw
}

// IsRoot reports whether the path selects only the document root.
func (p *Path) IsRoot() bool {
	return len(p.segments) == 0
}

// Parse parses a JSONPath expression.
//
//	Parse("$.info")
//	Parse("$.paths['/m365'].get")
//	Parse("$.components.parameters.*")
func Parse(expr string) (*Path, error) {
	if expr == "" {
		return nil, fmt.Errorf("jsonpath: empty expression")
	}
	if expr[0] != '$' {
		return nil, fmt.Errorf("jsonpath: expression must start with '$'")
	}

	p := &parser{input: expr, pos: 1}
	var segs []segment
	for p.pos < len(p.input) {
		var (
			seg segment
			err error
		)
		switch ch := p.input[p.pos]; ch {
		case '.':
			p.pos++
			seg, err = p.dot()
		case '[':
			p.pos++
			seg, err = p.bracket()
		default:
			err = fmt.Errorf("jsonpath: unexpected character %q at position %d", ch, p.pos)
		}
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)
	}
	return &Path{raw: expr, segments: segs}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(expr string) *Path {
	p, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return p
}

type parser struct {
	input string
	pos   int
}

func (p *parser) dot() (segment, error) {
	if p.pos >= len(p.input) {
		return segment{}, fmt.Errorf("jsonpath: unexpected end after '.'")
	}
	if p.input[p.pos] == '*' {
		p.pos++
		return segment{kind: segWildcard}, nil
	}
	start := p.pos
	for p.pos < len(p.input) && isIdentChar(p.input[p.pos]) {
		p.pos++
	}
	if start == p.pos {
		return segment{}, fmt.Errorf("jsonpath: expected name after '.' at position %d", p.pos)
	}
	return segment{kind: segChild, key: p.input[start:p.pos]}, nil
}

func (p *parser) bracket() (segment, error) {
	if p.pos >= len(p.input) {
		return segment{}, fmt.Errorf("jsonpath: unexpected end after '['")
	}
	var seg segment
	switch ch := p.input[p.pos]; {
	case ch == '*':
		p.pos++
		seg = segment{kind: segWildcard}
	case ch == '\'' || ch == '"':
		p.pos++
		key, err := p.quoted(ch)
		if err != nil {
			return segment{}, err
		}
		seg = segment{kind: segChild, key: key}
	case ch == '-' || (ch >= '0' && ch <= '9'):
		start := p.pos
		p.pos++
		for p.pos < len(p.input) && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
			p.pos++
		}
		n, err := strconv.Atoi(p.input[start:p.pos])
		if err != nil {
			return segment{}, fmt.Errorf("jsonpath: invalid index %q: %w", p.input[start:p.pos], err)
		}
		seg = segment{kind: segIndex, index: n}
	default:
		return segment{}, fmt.Errorf("jsonpath: unsupported selector %q at position %d", ch, p.pos)
	}
	if p.pos >= len(p.input) || p.input[p.pos] != ']' {
		return segment{}, fmt.Errorf("jsonpath: expected ']' at position %d", p.pos)
	}
	p.pos++
	return seg, nil
}

func (p *parser) quoted(quote byte) (string, error) {
	var b strings.Builder
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		switch {
		case ch == quote:
			p.pos++
			return b.String(), nil
		case ch == '\\' && p.pos+1 < len(p.input):
			p.pos++
			b.WriteByte(p.input[p.pos])
		default:
			b.WriteByte(ch)
		}
		p.pos++
	}
	return "", fmt.Errorf("jsonpath: unterminated string at position %d", p.pos)
}

func isIdentChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '_' || ch == '-' || ch == '$' || ch == '@'
}
