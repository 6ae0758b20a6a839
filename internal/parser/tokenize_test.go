package parser

import (
	"reflect"
	"testing"
)

func TestTokenizeDefaults(t *testing.T) {
	tok, err := Tokenize([]string{"-q", "a"})
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	cmd := tok.Command
	if !reflect.DeepEqual(cmd.Scopes, []string{"blobs"}) {
		t.Errorf("scopes = %v", cmd.Scopes)
	}
	if cmd.Archived != ArchivedInclude {
		t.Errorf("archived = %q", cmd.Archived)
	}
	if cmd.Color != "auto" {
		t.Errorf("color = %q", cmd.Color)
	}
	if cmd.ConfigDir != "." {
		t.Errorf("config dir = %q", cmd.ConfigDir)
	}
}

func TestTokenizeExpressionStream(t *testing.T) {
	tok, err := Tokenize([]string{"-q", "a", "-o", "(", "-q", "b", "-not", "-q", "c", ")"})
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	want := []Token{
		{Type: TokenQuery, Value: "a"},
		{Type: TokenOr},
		{Type: TokenLParen},
		{Type: TokenQuery, Value: "b"},
		{Type: TokenNot},
		{Type: TokenQuery, Value: "c"},
		{Type: TokenRParen},
		{Type: TokenEOF},
	}
	if !reflect.DeepEqual(tok.Tokens, want) {
		t.Errorf("tokens = %v, want %v", tok.Tokens, want)
	}
}

func TestTokenizeSelectors(t *testing.T) {
	tok, err := Tokenize([]string{
		"-g", "grp1,grp2", "-p", "42", "--projects", "7",
		"-u", "alice", "--my-projects", "--recursive",
		"-q", "a",
	})
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	cmd := tok.Command
	if !reflect.DeepEqual(cmd.Groups, []string{"grp1", "grp2"}) {
		t.Errorf("groups = %v", cmd.Groups)
	}
	if !reflect.DeepEqual(cmd.Projects, []string{"42", "7"}) {
		t.Errorf("projects = %v", cmd.Projects)
	}
	if cmd.User != "alice" {
		t.Errorf("user = %q", cmd.User)
	}
	if !cmd.MyProjects || !cmd.Recursive {
		t.Error("my-projects/recursive not set")
	}
}

// A NOT directly before a selector or filter flag turns into an
// exclusion and is removed from the expression stream.
func TestTokenizeNegatedSelectors(t *testing.T) {
	tok, err := Tokenize([]string{
		"-g", "grp1", "!", "-g", "grp2", "-q", "term",
		"!", "-p", "13",
		"!", "-f", "*_test.go", "!", "-e", "md", "!", "-P", "vendor/*",
	})
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	cmd := tok.Command

	if !reflect.DeepEqual(cmd.Groups, []string{"grp1"}) {
		t.Errorf("groups = %v", cmd.Groups)
	}
	if !reflect.DeepEqual(cmd.ExcludeGroups, []string{"grp2"}) {
		t.Errorf("exclude groups = %v", cmd.ExcludeGroups)
	}
	if !reflect.DeepEqual(cmd.ExcludeProjects, []string{"13"}) {
		t.Errorf("exclude projects = %v", cmd.ExcludeProjects)
	}
	if !reflect.DeepEqual(cmd.ExcludeFilenames, []string{"*_test.go"}) {
		t.Errorf("exclude filenames = %v", cmd.ExcludeFilenames)
	}
	if !reflect.DeepEqual(cmd.ExcludeExtensions, []string{"md"}) {
		t.Errorf("exclude extensions = %v", cmd.ExcludeExtensions)
	}
	if !reflect.DeepEqual(cmd.ExcludePaths, []string{"vendor/*"}) {
		t.Errorf("exclude paths = %v", cmd.ExcludePaths)
	}

	// The consumed NOTs must not leave negations in the expression.
	want := []Token{{Type: TokenQuery, Value: "term"}, {Type: TokenEOF}}
	if !reflect.DeepEqual(tok.Tokens, want) {
		t.Errorf("tokens = %v, want %v", tok.Tokens, want)
	}
}

// A NOT separated from the flag by an expression token stays a negation.
func TestTokenizeNotBeforeQueryStaysNegation(t *testing.T) {
	tok, err := Tokenize([]string{"!", "-q", "a", "-g", "grp"})
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(tok.Command.ExcludeGroups) != 0 {
		t.Errorf("exclude groups = %v, want none", tok.Command.ExcludeGroups)
	}
	if !reflect.DeepEqual(tok.Command.Groups, []string{"grp"}) {
		t.Errorf("groups = %v", tok.Command.Groups)
	}
	want := []Token{{Type: TokenNot}, {Type: TokenQuery, Value: "a"}, {Type: TokenEOF}}
	if !reflect.DeepEqual(tok.Tokens, want) {
		t.Errorf("tokens = %v, want %v", tok.Tokens, want)
	}
}

func TestTokenizeNegatedUserIsError(t *testing.T) {
	if _, err := Tokenize([]string{"!", "-u", "alice", "-q", "a"}); err == nil {
		t.Error("negated -u succeeded, want error")
	}
}

func TestTokenizeScopeValidation(t *testing.T) {
	tok, err := Tokenize([]string{"-s", "issues,commits", "-q", "a"})
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if !reflect.DeepEqual(tok.Command.Scopes, []string{"issues", "commits"}) {
		t.Errorf("scopes = %v", tok.Command.Scopes)
	}

	if _, err := Tokenize([]string{"-s", "gists", "-q", "a"}); err == nil {
		t.Error("unknown scope accepted")
	}
}

func TestTokenizeOptionValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad archived", []string{"--archived", "sometimes", "-q", "a"}},
		{"bad color", []string{"--color", "rainbow", "-q", "a"}},
		{"zero max requests", []string{"--max-requests", "0", "-q", "a"}},
		{"non-numeric max requests", []string{"--max-requests", "many", "-q", "a"}},
		{"missing group value", []string{"-q", "a", "-g"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Tokenize(tt.args); err == nil {
				t.Errorf("Tokenize(%v) succeeded, want error", tt.args)
			}
		})
	}
}

func TestTokenizeConnectionOptions(t *testing.T) {
	tok, err := Tokenize([]string{
		"--api-url", "https://git.example.com/api/v4",
		"--ignore-cert", "--max-requests", "30",
		"--token", "secret", "--token-file", "/run/token",
		"--color", "never", "--debug",
		"--setup", "--dir", "/tmp/cfg",
	})
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	cmd := tok.Command
	if cmd.APIURL != "https://git.example.com/api/v4" {
		t.Errorf("api url = %q", cmd.APIURL)
	}
	if !cmd.IgnoreCert || cmd.MaxRequests != 30 {
		t.Errorf("ignore-cert/max-requests = %v/%d", cmd.IgnoreCert, cmd.MaxRequests)
	}
	if cmd.Token != "secret" || cmd.TokenFile != "/run/token" {
		t.Errorf("token = %q, token file = %q", cmd.Token, cmd.TokenFile)
	}
	if cmd.Color != "never" || !cmd.Debug {
		t.Errorf("color = %q, debug = %v", cmd.Color, cmd.Debug)
	}
	if !cmd.Setup || cmd.ConfigDir != "/tmp/cfg" {
		t.Errorf("setup = %v, dir = %q", cmd.Setup, cmd.ConfigDir)
	}
}
