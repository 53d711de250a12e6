package commands

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/gaborage/go-fetch/cmd/gofetch/handlers"
)

// Call returns the command for executing a request with full control
// over the method, headers, and body.
func Call() *cobra.Command {
	var (
		flags    requestFlags
		method   string
		body     string
		bodyFile string
	)

	cmd := &cobra.Command{
		Use:   "call URL",
		Short: "Execute an HTTP request with a custom method and body",
		Long: `Call executes an HTTP request with full control over the method,
headers, and body.

Bodies are attached only for POST, PUT, and PATCH. When a body is sent
without an explicit Content-Type header, application/json is assumed.

Examples:
  # POST a JSON document
  gofetch call https://api.example.com/items -X POST -d '{"name":"widget"}'

  # Send a body from a file
  gofetch call https://api.example.com/items/42 -X PUT --body-file item.json

  # Pipe a body through stdin
  cat item.json | gofetch call https://api.example.com/items -X POST --body-file -

  # Delete with a custom header
  gofetch call https://api.example.com/items/42 -X DELETE -H "X-Api-Key: secret"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, args[0])
			opts.Method = method
			opts.Body = body
			opts.BodyFile = bodyFile
			return handlers.Fetch(cmd.Context(), opts)
		},
	}

	addRequestFlags(cmd, &flags)
	cmd.Flags().StringVarP(&method, "method", "X", http.MethodGet, "HTTP method to use")
	cmd.Flags().StringVarP(&body, "body", "d", "", "Request body sent with POST, PUT, and PATCH")
	cmd.Flags().StringVar(&bodyFile, "body-file", "", "Read the request body from a file (- for stdin)")

	return cmd
}
