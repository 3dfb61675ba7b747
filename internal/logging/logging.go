// Package logging builds the zap logger shared by the CLI commands.
package logging

import "go.uber.org/zap"

// New returns a production logger, or a development one when verbose is
// set. Callers own the logger and pass it down explicitly.
func New(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableCaller = true
	return cfg.Build()
}
