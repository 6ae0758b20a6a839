package parser

import (
	"strconv"
	"strings"
)

// Tokenization is the result of scanning the argument vector: the ordered
// expression token stream and the option state that was interleaved with
// it. Option arguments are consumed here and never reach the expression
// parser.
type Tokenization struct {
	Tokens  []Token
	Command *Command
}

type tokenizer struct {
	args   []string
	pos    int
	tokens []Token
	cmd    *Command

	// pendingNot tracks whether the previous expression token was NOT.
	// A value-taking selector or filter flag seen while it is set turns
	// into an exclusion and consumes that NOT token instead of leaving a
	// negation in the expression.
	pendingNot bool
}

// Tokenize scans the raw argument vector into expression tokens and
// side-channel options. The stream always terminates with an EOF token.
func Tokenize(args []string) (*Tokenization, error) {
	t := &tokenizer{
		args: args,
		cmd: &Command{
			Scopes:    []string{ScopeBlobs},
			Archived:  ArchivedInclude,
			Color:     "auto",
			ConfigDir: ".",
		},
	}
	if err := t.run(); err != nil {
		return nil, err
	}
	t.tokens = append(t.tokens, Token{Type: TokenEOF})
	return &Tokenization{Tokens: t.tokens, Command: t.cmd}, nil
}

// value consumes and returns the argument following a value-taking flag.
func (t *tokenizer) value(flag string) (string, error) {
	t.pos++
	if t.pos >= len(t.args) {
		return "", parseErrorf("%s requires an argument", flag)
	}
	return t.args[t.pos], nil
}

// emit appends an expression token and updates the negation state.
func (t *tokenizer) emit(tok Token) {
	t.tokens = append(t.tokens, tok)
	t.pendingNot = tok.Type == TokenNot
}

// negated reports whether the current flag directly follows a NOT token
// and, if so, removes that token from the stream. This is the dual use of
// NOT: expression negation when followed by a predicate, scope or filter
// exclusion when followed by a value-taking option.
func (t *tokenizer) negated() bool {
	if !t.pendingNot || len(t.tokens) == 0 {
		return false
	}
	if last := t.tokens[len(t.tokens)-1]; last.Type != TokenNot {
		return false
	}
	t.tokens = t.tokens[:len(t.tokens)-1]
	return true
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (t *tokenizer) run() error {
	for ; t.pos < len(t.args); t.pos++ {
		arg := t.args[t.pos]

		switch arg {
		case "-q":
			v, err := t.value(arg)
			if err != nil {
				return err
			}
			t.emit(Token{Type: TokenQuery, Value: v})

		case "-a":
			t.emit(Token{Type: TokenAnd})
		case "-o":
			t.emit(Token{Type: TokenOr})
		case "-not", "!":
			t.emit(Token{Type: TokenNot})
		case "(":
			t.emit(Token{Type: TokenLParen})
		case ")":
			t.emit(Token{Type: TokenRParen})

		case "-g", "--groups":
			v, err := t.value(arg)
			if err != nil {
				return err
			}
			if t.negated() {
				t.cmd.ExcludeGroups = append(t.cmd.ExcludeGroups, splitList(v)...)
			} else {
				t.cmd.Groups = append(t.cmd.Groups, splitList(v)...)
			}
			t.pendingNot = false

		case "-p", "--projects":
			v, err := t.value(arg)
			if err != nil {
				return err
			}
			if t.negated() {
				t.cmd.ExcludeProjects = append(t.cmd.ExcludeProjects, splitList(v)...)
			} else {
				t.cmd.Projects = append(t.cmd.Projects, splitList(v)...)
			}
			t.pendingNot = false

		case "-f", "--filename":
			v, err := t.value(arg)
			if err != nil {
				return err
			}
			if t.negated() {
				t.cmd.ExcludeFilenames = append(t.cmd.ExcludeFilenames, v)
			} else {
				t.cmd.Filename = v
			}
			t.pendingNot = false

		case "-e", "--extension":
			v, err := t.value(arg)
			if err != nil {
				return err
			}
			if t.negated() {
				t.cmd.ExcludeExtensions = append(t.cmd.ExcludeExtensions, v)
			} else {
				t.cmd.Extension = v
			}
			t.pendingNot = false

		case "-P", "--path":
			v, err := t.value(arg)
			if err != nil {
				return err
			}
			if t.negated() {
				t.cmd.ExcludePaths = append(t.cmd.ExcludePaths, v)
			} else {
				t.cmd.Path = v
			}
			t.pendingNot = false

		case "-u", "--user":
			v, err := t.value(arg)
			if err != nil {
				return err
			}
			if t.negated() {
				// There is no excluded-user list; a negated user selector
				// has no meaning.
				return parseErrorf("%s cannot be excluded with %s", arg, "-not")
			}
			t.cmd.User = v
			t.pendingNot = false

		case "--my-projects":
			t.cmd.MyProjects = true
			t.pendingNot = false
		case "--recursive":
			t.cmd.Recursive = true
			t.pendingNot = false

		case "-s", "--scope":
			v, err := t.value(arg)
			if err != nil {
				return err
			}
			scopes := splitList(v)
			for _, s := range scopes {
				if _, ok := knownScopes[s]; !ok {
					return parseErrorf("unknown scope: %s", s)
				}
			}
			t.cmd.Scopes = scopes
			t.pendingNot = false

		case "--archived":
			v, err := t.value(arg)
			if err != nil {
				return err
			}
			if v != ArchivedInclude && v != ArchivedOnly && v != ArchivedExclude {
				return parseErrorf("--archived must be one of: include, only, exclude")
			}
			t.cmd.Archived = v
			t.pendingNot = false

		case "--api-url":
			v, err := t.value(arg)
			if err != nil {
				return err
			}
			t.cmd.APIURL = v
			t.pendingNot = false

		case "--ignore-cert":
			t.cmd.IgnoreCert = true
			t.pendingNot = false

		case "--max-requests":
			v, err := t.value(arg)
			if err != nil {
				return err
			}
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return parseErrorf("--max-requests requires a positive integer")
			}
			t.cmd.MaxRequests = n
			t.pendingNot = false

		case "--token":
			v, err := t.value(arg)
			if err != nil {
				return err
			}
			t.cmd.Token = v
			t.pendingNot = false

		case "--token-file":
			v, err := t.value(arg)
			if err != nil {
				return err
			}
			t.cmd.TokenFile = v
			t.pendingNot = false

		case "--color":
			v, err := t.value(arg)
			if err != nil {
				return err
			}
			if v != "auto" && v != "always" && v != "never" {
				return parseErrorf("--color must be one of: auto, always, never")
			}
			t.cmd.Color = v
			t.pendingNot = false

		case "--debug":
			t.cmd.Debug = true
			t.pendingNot = false

		case "--setup":
			t.cmd.Setup = true
			t.pendingNot = false

		case "--dir":
			v, err := t.value(arg)
			if err != nil {
				return err
			}
			t.cmd.ConfigDir = v
			t.pendingNot = false

		default:
			if strings.HasPrefix(arg, "-") {
				return parseErrorf("unknown option: %s", arg)
			}
			return parseErrorf("unknown argument: %s", arg)
		}
	}
	return nil
}
