package main

import (
	"fmt"

	"gls/internal/config"
	"gls/internal/output"
	"gls/internal/parser"
)

// runSetup writes a config file from the connection flags given on the
// command line. The token is never persisted.
func runSetup(cmd *parser.Command, printer *output.Printer) error {
	cfg := config.Default()
	if cmd.APIURL != "" {
		cfg.APIURL = cmd.APIURL
	}
	if cmd.IgnoreCert {
		cfg.IgnoreCert = true
	}
	if cmd.MaxRequests > 0 {
		cfg.MaxRequests = cmd.MaxRequests
	}

	path, err := config.Write(cmd.ConfigDir, cfg)
	if err != nil {
		return err
	}
	printer.PrintSuccess(fmt.Sprintf("Config file written to %s", path))
	return nil
}
