package gosource

import (
	"errors"
	"strconv"

	"github.com/goliatone/go-guigen/pkg/schema"
)

type tagEntry struct {
	text string
	// offset of the first payload character from the start of the tag
	// literal, quotes included.
	offset int
}

// tagDirectives returns every `gui` entry of a struct tag literal. It walks
// the conventional key:"value" syntax the same way reflect.StructTag does,
// but keeps repeated keys instead of stopping at the first.
func tagDirectives(literal string) ([]tagEntry, error) {
	if len(literal) < 2 {
		return nil, errors.New("empty tag literal")
	}
	raw := literal[0] == '`'
	tag, err := strconv.Unquote(literal)
	if err != nil {
		return nil, err
	}

	var out []tagEntry
	pos := 0
	for pos < len(tag) {
		for pos < len(tag) && tag[pos] == ' ' {
			pos++
		}
		if pos >= len(tag) {
			break
		}

		start := pos
		for pos < len(tag) && tag[pos] > ' ' && tag[pos] != ':' && tag[pos] != '"' && tag[pos] != 0x7f {
			pos++
		}
		if pos == start || pos+1 >= len(tag) || tag[pos] != ':' || tag[pos+1] != '"' {
			return nil, errors.New("expected key:\"value\" pairs")
		}
		key := tag[start:pos]
		pos++ // :

		valueStart := pos
		pos++ // opening quote
		for pos < len(tag) && tag[pos] != '"' {
			if tag[pos] == '\\' {
				pos++
			}
			pos++
		}
		if pos >= len(tag) {
			return nil, errors.New("unterminated value")
		}
		pos++ // closing quote
		quoted := tag[valueStart:pos]

		if key != schema.DirectiveKey {
			continue
		}
		value, err := strconv.Unquote(quoted)
		if err != nil {
			return nil, err
		}
		offset := 1
		if raw {
			offset += valueStart + 1
		}
		out = append(out, tagEntry{text: value, offset: offset})
	}
	return out, nil
}
