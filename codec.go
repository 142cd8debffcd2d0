package batchq

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Codec encodes a batch of flat payloads into the wire string carried by the
// envelope's data field, and decodes it back. The wire contract is an ordered
// array of flat string-keyed objects; index i of the decoded batch must be
// the i-th payload that was encoded.
type Codec interface {
	// Name identifies the codec in configuration and logs.
	Name() string
	// EncodeBatch serializes the payloads in order into a single string.
	EncodeBatch(payloads []map[string]string) (string, error)
	// DecodeBatch reverses EncodeBatch, preserving order.
	DecodeBatch(data string) ([]map[string]string, error)
}

// JSONCodec is the default batch codec. It encodes the batch as a standard
// JSON array of objects, which satisfies the wire contract with a
// well-understood interchange format.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) EncodeBatch(payloads []map[string]string) (string, error) {
	if payloads == nil {
		payloads = []map[string]string{}
	}
	out, err := json.Marshal(payloads)
	if err != nil {
		return "", fmt.Errorf("failed to encode batch: %w", err)
	}
	return string(out), nil
}

func (JSONCodec) DecodeBatch(data string) ([]map[string]string, error) {
	var payloads []map[string]string
	if err := json.Unmarshal([]byte(data), &payloads); err != nil {
		return nil, fmt.Errorf("failed to decode batch: %w", err)
	}
	return payloads, nil
}

// LegacyCodec reproduces the original hand-rolled batch encoding: each
// payload becomes a textual object literal with backslash, single-quote, and
// double-quote characters backslash-escaped, and the batch is the ordered
// array of those literals. Keys are emitted in sorted order so the encoding
// is deterministic.
//
// Kept for wire compatibility with servers that still parse the old format.
// New deployments should use JSONCodec.
type LegacyCodec struct{}

func (LegacyCodec) Name() string { return "legacy" }

func (LegacyCodec) EncodeBatch(payloads []map[string]string) (string, error) {
	var b strings.Builder
	b.WriteByte('[')
	for i, payload := range payloads {
		if i > 0 {
			b.WriteByte(',')
		}
		keys := make([]string, 0, len(payload))
		for k := range payload {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteByte('{')
		for j, k := range keys {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(escapeLegacy(k))
			b.WriteString(`":"`)
			b.WriteString(escapeLegacy(payload[k]))
			b.WriteByte('"')
		}
		b.WriteByte('}')
	}
	b.WriteByte(']')
	return b.String(), nil
}

// DecodeBatch parses the legacy array-of-object-literals format. It accepts
// exactly what EncodeBatch produces plus incidental whitespace between
// tokens; anything else is a decode error.
func (LegacyCodec) DecodeBatch(data string) ([]map[string]string, error) {
	p := &legacyParser{input: data}
	payloads, err := p.parseBatch()
	if err != nil {
		return nil, fmt.Errorf("failed to decode legacy batch: %w", err)
	}
	return payloads, nil
}

// escapeLegacy prefixes backslash, single-quote, and double-quote characters
// with a single backslash, matching the original encoder byte for byte.
func escapeLegacy(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\', '\'', '"':
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// legacyParser is a minimal recursive-descent parser for the legacy batch
// format. It only understands flat string-keyed objects inside one array.
type legacyParser struct {
	input string
	pos   int
}

func (p *legacyParser) parseBatch() ([]map[string]string, error) {
	p.skipSpace()
	if err := p.expect('['); err != nil {
		return nil, err
	}
	payloads := []map[string]string{}
	p.skipSpace()
	if p.peek() == ']' {
		p.pos++
		return payloads, p.expectEnd()
	}
	for {
		obj, err := p.parseObject()
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, obj)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
			p.skipSpace()
		case ']':
			p.pos++
			return payloads, p.expectEnd()
		default:
			return nil, fmt.Errorf("unexpected character at offset %d", p.pos)
		}
	}
}

func (p *legacyParser) parseObject() (map[string]string, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	obj := make(map[string]string)
	p.skipSpace()
	if p.peek() == '}' {
		p.pos++
		return obj, nil
	}
	for {
		key, err := p.parseString()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		p.skipSpace()
		value, err := p.parseString()
		if err != nil {
			return nil, err
		}
		obj[key] = value
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
			p.skipSpace()
		case '}':
			p.pos++
			return obj, nil
		default:
			return nil, fmt.Errorf("unexpected character at offset %d", p.pos)
		}
	}
}

// parseString reads a quoted string, unescaping backslash sequences by
// dropping the backslash and keeping the following character. Both quote
// styles are accepted since the original format used them interchangeably.
func (p *legacyParser) parseString() (string, error) {
	quote := p.peek()
	if quote != '"' && quote != '\'' {
		return "", fmt.Errorf("expected string at offset %d", p.pos)
	}
	p.pos++
	var b strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch c {
		case '\\':
			if p.pos+1 >= len(p.input) {
				return "", fmt.Errorf("dangling escape at offset %d", p.pos)
			}
			b.WriteByte(p.input[p.pos+1])
			p.pos += 2
		case quote:
			p.pos++
			return b.String(), nil
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", fmt.Errorf("unterminated string at offset %d", p.pos)
}

func (p *legacyParser) expect(c byte) error {
	if p.peek() != c {
		return fmt.Errorf("expected %q at offset %d", c, p.pos)
	}
	p.pos++
	return nil
}

func (p *legacyParser) expectEnd() error {
	p.skipSpace()
	if p.pos != len(p.input) {
		return fmt.Errorf("trailing data at offset %d", p.pos)
	}
	return nil
}

func (p *legacyParser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *legacyParser) skipSpace() {
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}
