// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"errors"
	"strings"

	"github.com/anmitsu/go-shlex"

	"github.com/vfsh/vfsh/internal/vfs"
)

// Tokenizer splits input lines into words: whitespace separates words except
// inside single or double quotes, and a backslash escapes the next character.
// Nothing else is interpreted, so '#', '$', '|' and ';' are ordinary
// characters of a word.
type Tokenizer struct {
	home string
}

// NewTokenizer returns a Tokenizer that replaces a leading "~" word or "~/"
// prefix with home. An empty home leaves "~" literal.
func NewTokenizer(home string) *Tokenizer {
	return &Tokenizer{home: home}
}

// Tokenize splits line with a Tokenizer that has no home directory.
func Tokenize(line string) ([]string, error) {
	return NewTokenizer("").Tokenize(line)
}

// Tokenize returns the words of line with quotes removed. Blank lines yield
// no words and no error. Empty quoted words ("") are dropped.
func (t *Tokenizer) Tokenize(line string) ([]string, error) {
	words, err := shlex.Split(line, true)
	if err != nil {
		return nil, newError(SyntaxError, "", err, "invalid argument syntax: %s", splitErrorText(err))
	}
	if len(words) == 0 {
		return nil, nil
	}

	if t.home != "" {
		for i, w := range words {
			words[i] = t.expandHome(w)
		}
	}
	return words, nil
}

func (t *Tokenizer) expandHome(word string) string {
	switch {
	case word == vfs.HomeLabel:
		return t.home
	case strings.HasPrefix(word, vfs.HomeLabel+"/"):
		return t.home + word[len(vfs.HomeLabel):]
	}
	return word
}

func splitErrorText(err error) string {
	switch {
	case errors.Is(err, shlex.ErrNoClosing):
		return "no closing quotation"
	case errors.Is(err, shlex.ErrNoEscaped):
		return "no escaped character"
	}
	return err.Error()
}
