package commands

import (
	"github.com/spf13/cobra"

	"github.com/gaborage/go-fetch/cmd/gofetch/handlers"
)

// Get returns the command for fetching a URL with the GET method.
func Get() *cobra.Command {
	var flags requestFlags

	cmd := &cobra.Command{
		Use:   "get URL",
		Short: "Fetch a URL with bounded retries",
		Long: `Get fetches a URL with the GET method, retrying transport failures
with exponential backoff.

The response body is written to stdout. Status handling is up to the
caller: a 4xx or 5xx response is rendered like any other and reflected
in the exit code.

Examples:
  # Fetch a URL
  gofetch get https://api.example.com/health

  # Tighter per-attempt deadline and more retries
  gofetch get https://api.example.com/health --timeout 2s --retries 5

  # Structured output with status and retry statistics
  gofetch get https://api.example.com/items -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Fetch(cmd.Context(), flags.options(cmd, args[0]))
		},
	}

	addRequestFlags(cmd, &flags)

	return cmd
}
