// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{line: "", want: nil},
		{line: "   \t ", want: nil},
		{line: "ls", want: []string{"ls"}},
		{line: `ls "a b" c`, want: []string{"ls", "a b", "c"}},
		{line: `ls 'single quoted' "double"`, want: []string{"ls", "single quoted", "double"}},
		{line: `cd   spaced\ name`, want: []string{"cd", "spaced name"}},
		{line: `ls "it's"`, want: []string{"ls", "it's"}},
		{line: `ls pre"fix mid"post`, want: []string{"ls", "prefix midpost"}},
		{line: `ls "" x`, want: []string{"ls", "x"}},
		{line: `ls *.txt`, want: []string{"ls", "*.txt"}},
		{line: `ls a#b`, want: []string{"ls", "a#b"}},
		{line: "conf-dump", want: []string{"conf-dump"}},
		{line: "exit 3 # c", want: []string{"exit", "3", "#", "c"}},
		{line: "cd #nosuchdir", want: []string{"cd", "#nosuchdir"}},
		{line: "ls $HOME ${#HOME} $((x))", want: []string{"ls", "$HOME", "${#HOME}", "$((x))"}},
		{line: "ls a|b c;d", want: []string{"ls", "a|b", "c;d"}},
		{line: `ls "say \"hi\""`, want: []string{"ls", `say "hi"`}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Tokenize(tt.line)
			if err != nil {
				t.Fatalf("Tokenize(%q) error: %v", tt.line, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}

func TestTokenize_SyntaxErrors(t *testing.T) {
	lines := []string{
		`ls "unterminated`,
		`ls 'unterminated`,
		`ls trailing\`,
	}

	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			_, err := Tokenize(line)
			if err == nil {
				t.Fatalf("Tokenize(%q) should fail", line)
			}
			if !errors.Is(err, ErrSyntax) {
				t.Errorf("Tokenize(%q) error = %v, want ErrSyntax", line, err)
			}
			if KindOf(err) != SyntaxError {
				t.Errorf("KindOf() = %v, want SyntaxError", KindOf(err))
			}
		})
	}
}

func TestTokenizer_Home(t *testing.T) {
	tok := NewTokenizer("/vfs")

	got, err := tok.Tokenize("cd ~/dir1 ~ ~user a~")
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}
	if diff := cmp.Diff([]string{"cd", "/vfs/dir1", "/vfs", "~user", "a~"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	got, err = tok.Tokenize("ls $HOME")
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}
	if diff := cmp.Diff([]string{"ls", "$HOME"}, got); diff != "" {
		t.Errorf("$HOME should stay literal (-want +got):\n%s", diff)
	}
}
