package moderation

import (
	"unicode"

	"live-hub/errors"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Masker hides forbidden words in relayed comments.
//
// Matching runs on a normalized projection of the text (lowercased,
// punctuation and spacing removed) so that spaced-out or dotted
// variants of a word are still caught, while the replacement is applied
// to the original runes to preserve the comment's layout.
type Masker struct {
	machine *goahocorasick.Machine
	mask    rune
}

func NewMasker(words []string, mask rune) (*Masker, error) {
	patterns := make([][]rune, 0, len(words))
	for _, w := range words {
		if p := normalizePattern([]rune(w)); len(p) > 0 {
			patterns = append(patterns, p)
		}
	}
	if len(patterns) == 0 {
		return nil, errors.ErrEmptyWords
	}

	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return nil, err
	}
	return &Masker{machine: machine, mask: mask}, nil
}

// Mask replaces every match with the mask character and returns the
// original text untouched when nothing matches.
func (m *Masker) Mask(text string) string {
	original := []rune(text)
	projected := project(original)
	if len(projected.runes) == 0 {
		return text
	}

	spans := m.machine.MultiPatternSearch(projected.runes, false)
	if len(spans) == 0 {
		return text
	}

	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(projected.origin) {
			continue
		}
		for i := projected.origin[start]; i <= projected.origin[end-1]; i++ {
			original[i] = m.mask
		}
	}
	return string(original)
}

// projection keeps, for every normalized rune, the index it came from.
type projection struct {
	runes  []rune
	origin []int
}

func project(input []rune) projection {
	p := projection{
		runes:  make([]rune, 0, len(input)),
		origin: make([]int, 0, len(input)),
	}
	for i, r := range input {
		if isNoise(r) {
			continue
		}
		p.runes = append(p.runes, unicode.ToLower(r))
		p.origin = append(p.origin, i)
	}
	return p
}

func normalizePattern(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		if isNoise(r) {
			continue
		}
		out = append(out, unicode.ToLower(r))
	}
	return out
}

// isNoise identifies characters ignored during the matching phase.
func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
