package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gls/internal/config"
	"gls/internal/executor"
	"gls/internal/gitlab"
	"gls/internal/logging"
	"gls/internal/output"
	"gls/internal/parser"
	"gls/internal/scope"
	"gls/internal/version"
)

const usage = `Usage: gls [scope options] [filters] expression

Search GitLab projects with boolean query expressions, in the style of
find(1): bare flags combine left to right, queries join implicitly with
AND, and parentheses group.

Expression:
  -q <term>             query term (several terms AND together)
  -a                    explicit AND
  -o                    explicit OR
  -not, !               negate the next term or group
  ( ... )               grouping (quote or escape for the shell)

Scope selection:
  -g, --groups <name>   search projects in this group (repeatable)
  -p, --projects <id>   search this project (repeatable)
  -u, --user <name>     search a user's projects
      --my-projects     search projects you are a member of
      --recursive       include descendant groups
      --archived <include|only|exclude>
                        archived project handling (default include)

Result scope and file filters:
  -s, --scope <name>    blobs, files, issues, merge_requests, milestones,
                        wiki_blobs, commits, notes (repeatable; default blobs)
  -f, --filename <pat>  only match in files with this name ('*' wildcards)
  -e, --extension <ext> only match in files with this extension
  -P, --path <pat>      only match in files under this path

Exclusions (prefix with ! or -not):
  ! -g <name>           exclude a group
  ! -p <id>             exclude a project
  ! -f <pat>            exclude matching filenames
  ! -e <ext>            exclude matching extensions
  ! -P <pat>            exclude matching paths

Connection:
      --api-url <url>   GitLab API base URL
      --ignore-cert     skip TLS certificate verification
      --max-requests <n>
                        concurrent request ceiling (default 15)
      --token <token>   personal access token
      --token-file <path>
                        read the token from a file
                        (or set ` + config.EnvToken + `)

Other:
      --color <auto|always|never>
      --debug           verbose logging to stderr
      --setup           write a config file and exit
      --dir <path>      config directory (default .)
  -h, --help            show this help
  -V, --version         show version
`

var rootCmd = &cobra.Command{
	Use:                "gls",
	Short:              "Boolean search across GitLab projects",
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE:               runRoot,
}

func runRoot(c *cobra.Command, args []string) error {
	for _, a := range args {
		switch a {
		case "-h", "--help":
			fmt.Fprint(c.OutOrStdout(), usage)
			return nil
		case "-V", "--version":
			fmt.Fprintf(c.OutOrStdout(), "gls version %s\n", version.Info())
			return nil
		}
	}

	cmd, err := parser.ParseCommand(args)
	if err != nil {
		return err
	}

	logger := logging.New(os.Stderr, logging.LevelFromDebug(cmd.Debug))
	printer := output.NewPrinter(os.Stdout, cmd.Color)

	if cmd.Setup {
		return runSetup(cmd, printer)
	}

	cfg, err := config.Load(cmd.ConfigDir)
	if err != nil {
		return err
	}
	if cmd.APIURL != "" {
		cfg.APIURL = cmd.APIURL
	}
	if cmd.IgnoreCert {
		cfg.IgnoreCert = true
	}
	if cmd.MaxRequests > 0 {
		cfg.MaxRequests = cmd.MaxRequests
	}

	token, err := config.ResolveToken(cmd.Token, cmd.TokenFile)
	if err != nil {
		return err
	}
	if token == "" {
		return fmt.Errorf("no access token: pass --token, --token-file, or set %s", config.EnvToken)
	}

	if cmd.Expression == nil && !hasScope(cmd, parser.ScopeFiles) {
		return fmt.Errorf("nothing to search for: give a query with -q, or use '-s files' with a file filter")
	}

	client := gitlab.NewClient(gitlab.Options{
		BaseURL:     cfg.APIURL,
		Token:       token,
		IgnoreCert:  cfg.IgnoreCert,
		MaxRequests: cfg.MaxRequests,
		Logger:      logger,
	})

	ctx := c.Context()
	projects, err := scope.Resolve(ctx, client, cmd, logger)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		logger.Debug("no projects to search")
		return nil
	}

	return executor.New(client, printer, logger).Run(ctx, cmd, projects)
}

func hasScope(cmd *parser.Command, name string) bool {
	for _, s := range cmd.Scopes {
		if s == name {
			return true
		}
	}
	return false
}
