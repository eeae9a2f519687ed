package commands

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/dayplan/pkg/runner/mcp"
)

func addMCP(topLevel *cobra.Command) {
	var transport string
	httpOpts := mcp.HTTPOptions{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "start the Model Context Protocol server",
		Long: `Launch an MCP server that exposes the views, tasks and their mutations
through the Model Context Protocol.

Calls that omit now are classified against this machine's clock and zone.`,
		Example: `
dayplan mcp
dayplan mcp --transport stdio
dayplan mcp --http-host 0.0.0.0 --http-port 0
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := openEnv()
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()

			r := mcp.Runner{
				App:       e.Service,
				Clock:     time.Now,
				Version:   version,
				Transport: mcp.Transport(strings.ToLower(strings.TrimSpace(transport))),
				HTTP:      httpOpts,
			}
			r.HTTP.CertFile = strings.TrimSpace(r.HTTP.CertFile)
			r.HTTP.KeyFile = strings.TrimSpace(r.HTTP.KeyFile)
			r.HTTP.OnListening = func(url string) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "MCP HTTP server listening on %s\n", url)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return output.HandleError(r.Do(ctx))
		},
	}

	cmd.Flags().StringVar(&transport, "transport", string(mcp.TransportHTTP), "transport to use: http or stdio")
	cmd.Flags().StringVar(&httpOpts.Host, "http-host", "127.0.0.1", "host/interface for HTTP transport")
	cmd.Flags().IntVar(&httpOpts.Port, "http-port", 8080, "port for HTTP transport (use 0 for random)")
	cmd.Flags().StringVar(&httpOpts.Path, "http-path", "/mcp", "HTTP endpoint path")
	cmd.Flags().StringVar(&httpOpts.CertFile, "http-tls-cert", "", "TLS certificate file for HTTPS")
	cmd.Flags().StringVar(&httpOpts.KeyFile, "http-tls-key", "", "TLS private key file for HTTPS")

	topLevel.AddCommand(cmd)
}
