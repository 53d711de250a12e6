// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing and flag binding. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the gofetch CLI.
//
// Errors and usage output are silenced here so main prints each error
// exactly once and picks the process exit code itself.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gofetch",
		Short: "HTTP client with per-attempt deadlines and bounded retries",
		Long: `gofetch executes HTTP requests with a per-attempt deadline and
bounded exponential-backoff retries.

Transport failures (timeouts, connection errors) are retried up to the
configured limit; any received response is final, whatever its status
class. The response body goes to stdout and logs go to stderr, so
output can be piped.

Exit codes:
  0  response received with status below 400 (or --allow-error-status)
  1  response received with status 400 or above
  2  configuration or usage error
  3  every attempt ended in a transport failure
  4  interrupted before completion`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.AddCommand(Get())
	cmd.AddCommand(Call())
	cmd.AddCommand(Version())

	return cmd
}
