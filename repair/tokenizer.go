package repair

import (
	"fmt"
	"regexp"
	"strings"
)

// Delimiter describes one math delimiter class. Open and Close are regular
// expressions matched at the current scan position. A delimiter with an empty
// Close is symmetric: the same pattern both opens and closes an expression
// (e.g. "$"), and the reconciler pairs occurrences by adjacency.
type Delimiter struct {
	Name  string
	Open  string
	Close string
}

// MathJaxDelimiters returns the delimiter classes MathJax recognizes by
// default. Order matters: "$$" must be tried before "$".
func MathJaxDelimiters() []Delimiter {
	return []Delimiter{
		{Name: "display-dollar", Open: `\$\$`},
		{Name: "inline-dollar", Open: `\$`},
		{Name: "paren", Open: `\\\(`, Close: `\\\)`},
		{Name: "bracket", Open: `\\\[`, Close: `\\\]`},
	}
}

// defaultTagPattern recognizes HTML start and end tags. Group 1 is the
// end-tag slash, group 2 the element name, group 4 the self-closing slash.
const defaultTagPattern = `<(/?)([a-zA-Z][a-zA-Z0-9:_.-]*)([^<>]*?)(/?)>`

// voidElements never take end tags; they carry no nesting evidence and are
// skipped by the tokenizer.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

type compiledDelimiter struct {
	name        string
	open, close *regexp.Regexp // close is nil for symmetric delimiters
}

// Syntax holds the compiled recognizers for one tokenization scheme: the math
// delimiter classes and the HTML tag pattern. A Syntax is immutable and safe
// for concurrent use.
type Syntax struct {
	delims []compiledDelimiter
	tag    *regexp.Regexp
}

// NewSyntax compiles the given delimiter classes and tag pattern. An empty
// tagPattern selects the built-in HTML tag recognizer.
func NewSyntax(delims []Delimiter, tagPattern string) (*Syntax, error) {
	if tagPattern == "" {
		tagPattern = defaultTagPattern
	}
	tag, err := regexp.Compile("^(?:" + tagPattern + ")")
	if err != nil {
		return nil, fmt.Errorf("compile tag pattern: %w", err)
	}
	if tag.NumSubexp() < 4 {
		return nil, fmt.Errorf("tag pattern needs 4 groups (end slash, name, attrs, self-closing slash), got %d", tag.NumSubexp())
	}

	s := &Syntax{tag: tag}
	for _, d := range delims {
		cd := compiledDelimiter{name: d.Name}
		cd.open, err = regexp.Compile("^(?:" + d.Open + ")")
		if err != nil {
			return nil, fmt.Errorf("compile open pattern for %q: %w", d.Name, err)
		}
		if d.Close != "" {
			cd.close, err = regexp.Compile("^(?:" + d.Close + ")")
			if err != nil {
				return nil, fmt.Errorf("compile close pattern for %q: %w", d.Name, err)
			}
		}
		s.delims = append(s.delims, cd)
	}
	return s, nil
}

// MathJaxSyntax returns a Syntax with the default MathJax delimiters and the
// built-in HTML tag recognizer.
func MathJaxSyntax() *Syntax {
	s, err := NewSyntax(MathJaxDelimiters(), "")
	if err != nil {
		panic(err) // the defaults always compile
	}
	return s
}

// Tokenize scans the fragment left to right and returns the ordered token
// sequence. Math delimiter patterns are tried before the HTML tag pattern at
// every position, so a span claimable by both schemes is classified as math.
// Comments, doctypes, void elements and self-closing tags are consumed
// without producing tokens. A tag or comment candidate that is never
// terminated before the end of the fragment yields a *TokenizationError.
func (s *Syntax) Tokenize(fragment string) ([]Token, error) {
	var tokens []Token

	i := 0
	for i < len(fragment) {
		tok, n, err := s.next(fragment, i)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			i++ // plain text byte
			continue
		}
		if tok != nil {
			tokens = append(tokens, *tok)
		}
		i += n
	}
	return tokens, nil
}

// next matches one token candidate at offset i. It returns the token (nil for
// consumed-but-insignificant matches) and the number of bytes consumed; a
// zero count means no candidate starts at i.
func (s *Syntax) next(fragment string, i int) (*Token, int, error) {
	rest := fragment[i:]

	// Math delimiters win over HTML tags on overlapping claims: the
	// corruption under repair is exclusively math-side, so the math read is
	// the likelier truth when both recognizers claim a span.
	for _, d := range s.delims {
		if d.close != nil {
			if m := d.close.FindString(rest); m != "" {
				return &Token{Kind: MathClose, Span: Span{i, len(m)}, Name: d.name, Raw: m}, len(m), nil
			}
		}
		if m := d.open.FindString(rest); m != "" {
			return &Token{Kind: MathOpen, Span: Span{i, len(m)}, Name: d.name, Raw: m}, len(m), nil
		}
	}

	if rest[0] != '<' {
		return nil, 0, nil
	}

	if strings.HasPrefix(rest, "<!--") {
		end := strings.Index(rest, "-->")
		if end < 0 {
			return nil, 0, &TokenizationError{Offset: i, Context: snippet(rest), Reason: "unterminated comment"}
		}
		return nil, end + len("-->"), nil
	}
	if strings.HasPrefix(rest, "<!") || strings.HasPrefix(rest, "<?") {
		end := strings.IndexByte(rest, '>')
		if end < 0 {
			return nil, 0, &TokenizationError{Offset: i, Context: snippet(rest), Reason: "unterminated declaration"}
		}
		return nil, end + 1, nil
	}

	m := s.tag.FindStringSubmatch(rest)
	if m == nil {
		if tagCandidate(rest) && strings.IndexByte(rest, '>') < 0 {
			return nil, 0, &TokenizationError{Offset: i, Context: snippet(rest), Reason: "unterminated tag"}
		}
		return nil, 0, nil // a bare "<", plain text
	}

	name := strings.ToLower(m[2])
	if m[4] == "/" || voidElements[name] {
		return nil, len(m[0]), nil // no nesting evidence
	}

	kind := HTMLOpen
	if m[1] == "/" {
		kind = HTMLClose
	}
	return &Token{Kind: kind, Span: Span{i, len(m[0])}, Name: name, Raw: m[0]}, len(m[0]), nil
}

// tagCandidate reports whether text starts with something that looks like the
// beginning of a tag: "<" followed by a name, or "</" followed by a name.
func tagCandidate(text string) bool {
	if len(text) < 2 || text[0] != '<' {
		return false
	}
	c := text[1]
	if c == '/' {
		if len(text) < 3 {
			return false
		}
		c = text[2]
	}
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// snippet truncates text for error messages.
func snippet(text string) string {
	const max = 40
	if len(text) > max {
		return text[:max] + "..."
	}
	return text
}
