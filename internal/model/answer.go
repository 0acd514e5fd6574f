package model

import (
	"strings"
	"unicode/utf8"
)

// MaxAnswerLength is counted in code points
const MaxAnswerLength = 50

// Hiragana letters plus the prolonged sound mark
const (
	hiraganaFirst      = 'ぁ'
	hiraganaLast       = 'ゖ'
	prolongedSoundMark = 'ー'
)

// Answer is the secret word of a turn. A Turn without an answer holds a nil
// *Answer; the zero Answer is never produced by NewAnswer.
type Answer struct {
	value string
}

// NewAnswer trims raw and checks it against the hiragana whitelist
func NewAnswer(raw string) (Answer, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return Answer{}, ErrAnswerEmpty
	}
	if n := utf8.RuneCountInString(v); n > MaxAnswerLength {
		return Answer{}, validationError(CodeAnswerTooLong,
			"answer must be at most %d characters, got %d", MaxAnswerLength, n)
	}
	for _, r := range v {
		if !IsAnswerRune(r) {
			return Answer{}, validationError(CodeAnswerInvalidChars,
				"answer must be hiragana only, found %q", r)
		}
	}
	return Answer{value: v}, nil
}

// IsAnswerRune reports whether r may appear in an answer
func IsAnswerRune(r rune) bool {
	return (r >= hiraganaFirst && r <= hiraganaLast) || r == prolongedSoundMark
}

// Matches compares a guess to the answer after trimming, with no other normalization
func (a Answer) Matches(guess string) bool {
	g := strings.TrimSpace(guess)
	return g != "" && g == a.value
}

func (a Answer) String() string { return a.value }
