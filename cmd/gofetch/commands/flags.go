package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/gaborage/go-fetch/cmd/gofetch/handlers"
)

// requestFlags holds the flags shared by commands that execute a request.
type requestFlags struct {
	configPath string
	headers    []string
	timeout    time.Duration
	retries    int
	backoff    time.Duration
	output     string
	allowError bool
}

// addRequestFlags binds the shared request flags to cmd.
func addRequestFlags(cmd *cobra.Command, f *requestFlags) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "Path to configuration file (default: gofetch.yaml if present)")
	cmd.Flags().StringArrayVarP(&f.headers, "header", "H", nil, `Request header as "Key: Value" (repeatable)`)
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "Per-attempt timeout (overrides configuration)")
	cmd.Flags().IntVar(&f.retries, "retries", 0, "Retries after the first attempt (overrides configuration)")
	cmd.Flags().DurationVar(&f.backoff, "backoff", 0, "Base delay before the first retry, doubling afterwards (overrides configuration)")
	cmd.Flags().StringVarP(&f.output, "output", "o", handlers.OutputText, "Output format: text or json")
	cmd.Flags().BoolVar(&f.allowError, "allow-error-status", false, "Exit zero even when the response status is 400 or above")
}

// options converts bound flags into handler options. Timeout, retries,
// and backoff are forwarded only when the user set them so configured
// values stay in effect otherwise.
func (f *requestFlags) options(cmd *cobra.Command, url string) handlers.Options {
	opts := handlers.Options{
		URL:        url,
		Headers:    f.headers,
		Output:     f.output,
		AllowError: f.allowError,
		ConfigFile: f.configPath,
	}
	if cmd.Flags().Changed("timeout") {
		opts.Timeout = &f.timeout
	}
	if cmd.Flags().Changed("retries") {
		opts.Retries = &f.retries
	}
	if cmd.Flags().Changed("backoff") {
		opts.Backoff = &f.backoff
	}
	return opts
}
