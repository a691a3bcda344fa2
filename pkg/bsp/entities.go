package bsp

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Entity is one `{ ... }` block of entity text. Keys keep the order they
// first appeared in; a key seen more than once holds every value in file
// order (usually outputs).
type Entity struct {
	keys   []string
	values map[string][]string
}

// NewEntity returns an empty entity.
func NewEntity() *Entity {
	return &Entity{values: make(map[string][]string)}
}

// Add appends a value for key. The first occurrence sets a single value,
// later ones promote the key to a list.
func (e *Entity) Add(key, value string) {
	if e.values == nil {
		e.values = make(map[string][]string)
	}
	if _, ok := e.values[key]; !ok {
		e.keys = append(e.keys, key)
	}
	e.values[key] = append(e.values[key], value)
}

// Set replaces every value of key with value.
func (e *Entity) Set(key, value string) {
	if e.values == nil {
		e.values = make(map[string][]string)
	}
	if _, ok := e.values[key]; !ok {
		e.keys = append(e.keys, key)
	}
	e.values[key] = []string{value}
}

// Get returns the first value of key.
func (e *Entity) Get(key string) (string, bool) {
	v, ok := e.values[key]
	if !ok {
		return "", false
	}
	return v[0], true
}

// Values returns every value of key, nil if absent.
func (e *Entity) Values(key string) []string {
	return e.values[key]
}

// IsList reports whether key appeared more than once.
func (e *Entity) IsList(key string) bool {
	return len(e.values[key]) > 1
}

// Keys returns keys in first-appearance order.
func (e *Entity) Keys() []string {
	return e.keys
}

// Len returns the number of distinct keys.
func (e *Entity) Len() int {
	return len(e.keys)
}

// Equal reports whether both entities hold the same keys in the same order
// with the same values.
func (e *Entity) Equal(other *Entity) bool {
	if len(e.keys) != len(other.keys) {
		return false
	}
	for i, k := range e.keys {
		if other.keys[i] != k {
			return false
		}
		a, b := e.values[k], other.values[k]
		if len(a) != len(b) {
			return false
		}
		for j := range a {
			if a[j] != b[j] {
				return false
			}
		}
	}
	return true
}

// lines renders the entity as it appears in entity text.
func (e *Entity) lines() []string {
	out := make([]string, 0, len(e.keys)+2)
	out = append(out, "{")
	for _, k := range e.keys {
		for _, v := range e.values[k] {
			out = append(out, `"`+k+`" "`+v+`"`)
		}
	}
	return append(out, "}")
}

func (e *Entity) String() string {
	return strings.Join(e.lines(), "\n")
}

// Entities is the ordered contents of an entities lump or partition file.
type Entities []*Entity

// DecodeEntities parses entity text. Invalid UTF-8 is replaced rather than
// rejected. Blank lines and lone NUL lines (alignment padding) are skipped.
func DecodeEntities(raw []byte) (Entities, error) {
	lines := strings.Split(decodeText(raw), "\n")
	entities := Entities{}
	var current *Entity
	for i, line := range lines {
		lineNo := i + 1
		switch {
		case strings.TrimSpace(line) == "", line == "\x00":
			continue
		case current != nil && strings.Contains(line, `"`):
			key, value, err := splitKeyValue(line)
			if err != nil {
				err.Line = lineNo
				return nil, err
			}
			current.Add(key, value)
		case current == nil && strings.Contains(line, "{"):
			current = NewEntity()
		case current != nil && strings.Contains(line, "}"):
			entities = append(entities, current)
			current = nil
		default:
			return nil, &EntityTextError{Line: lineNo, Content: line}
		}
	}
	if current != nil {
		return nil, &EntityTextError{Line: len(lines), Content: lines[len(lines)-1], Reason: "unterminated entity"}
	}
	return entities, nil
}

// splitKeyValue extracts the first and third quoted segments of a
// `"key" "value"` line. Any quote count other than four is rejected so odd
// lines are never silently mis-paired.
func splitKeyValue(line string) (string, string, *EntityTextError) {
	if n := strings.Count(line, `"`); n != 4 {
		return "", "", &EntityTextError{Content: line, Reason: "expected exactly 2 quoted strings"}
	}
	parts := strings.Split(line, `"`)
	return parts[1], parts[3], nil
}

// Bytes encodes the entities back to text. Output of DecodeEntities
// re-encodes byte-for-byte; blank padding lines in hand-edited input do not
// survive.
func (es Entities) Bytes() ([]byte, error) {
	blocks := make([]string, len(es))
	for i, e := range es {
		blocks[i] = e.String()
	}
	return []byte(strings.Join(blocks, "\n")), nil
}

// Lines renders every entity, one line per key/value.
func (es Entities) Lines() []string {
	var out []string
	for _, e := range es {
		out = append(out, e.lines()...)
	}
	return out
}

// Find returns every entity whose value for each key matches the paired
// glob pattern (`*`, `?`, `[...]`, `[!...]`). A missing key matches as the
// empty string, so an empty pattern selects entities where the key is absent
// or empty; it is not a wildcard. Keys holding several values match if any
// value does.
func (es Entities) Find(patterns map[string]string) Entities {
	compiled := make(map[string]*regexp.Regexp, len(patterns))
	for k, p := range patterns {
		compiled[k] = globRegexp(p)
	}
	var out Entities
	for _, e := range es {
		if e.matches(compiled) {
			out = append(out, e)
		}
	}
	return out
}

func (e *Entity) matches(patterns map[string]*regexp.Regexp) bool {
	for k, re := range patterns {
		values := e.values[k]
		if len(values) == 0 {
			values = []string{""}
		}
		hit := false
		for _, v := range values {
			if re.MatchString(v) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// globRegexp translates a shell-style pattern into an anchored regexp. Unlike
// path.Match, `*` also crosses '/', since entity values are often asset paths.
func globRegexp(pattern string) *regexp.Regexp {
	var sb strings.Builder
	sb.WriteString(`(?s)\A`)
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '*':
			sb.WriteString(`.*`)
		case '?':
			sb.WriteString(`.`)
		case '[':
			end := strings.IndexByte(pattern[i+1:], ']')
			if end == 0 && i+2 < len(pattern) {
				// `[]...]`: leading ']' is a literal member
				if next := strings.IndexByte(pattern[i+2:], ']'); next >= 0 {
					end = next + 1
				} else {
					end = -1
				}
			}
			if end < 0 {
				sb.WriteString(`\[`)
				continue
			}
			class := pattern[i+1 : i+1+end]
			i += end + 1
			sb.WriteByte('[')
			if strings.HasPrefix(class, "!") {
				sb.WriteByte('^')
				class = class[1:]
			} else if strings.HasPrefix(class, "^") {
				// only '!' negates; a leading '^' is a member
				sb.WriteString(`\^`)
				class = class[1:]
			}
			sb.WriteString(strings.ReplaceAll(class, `\`, `\\`))
			sb.WriteByte(']')
		default:
			if c >= utf8.RuneSelf {
				sb.WriteByte(c)
				continue
			}
			sb.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	sb.WriteString(`\z`)
	re, err := regexp.Compile(sb.String())
	if err != nil {
		return regexp.MustCompile(`\A` + regexp.QuoteMeta(pattern) + `\z`)
	}
	return re
}
