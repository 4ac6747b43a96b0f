package cli

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/reqbot-cli/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/reqbot-cli/internal/core/services"
	"github.com/custodia-labs/reqbot-cli/internal/logger"
)

const (
	servePortStart = 8080
	servePortEnd   = 8180
)

var (
	serveHost     string
	servePort     int
	serveBasePath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the session over HTTP",
	Long: `Start a JSON HTTP API for a requirements session. The OpenAPI
document is served at <base-path>/openapi.json.

Without --port, the first free port from 8080 to 8180 is used.

Example:
  reqbot serve --port 9000
  curl -X POST localhost:9000/v1/start -d '{"idea":"a bike marketplace"}'`,
	RunE: runServe,
}

// serveHTTP is swapped in tests.
var serveHTTP = httpapi.Serve

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "interface to listen on")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (0 = first free port)")
	serveCmd.Flags().StringVar(&serveBasePath, "base-path", "/v1", "path prefix for all endpoints")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	handler, err := httpapi.New(httpapi.Config{Session: sessionService, BasePath: serveBasePath})
	if err != nil {
		return fmt.Errorf("building API: %w", err)
	}

	port := servePort
	if port == 0 {
		port, err = services.FindAvailablePort(serveHost, servePortStart, servePortEnd)
		if err != nil {
			return err
		}
	}

	addr := net.JoinHostPort(serveHost, strconv.Itoa(port))
	logger.Info("serving session API on %s", addr)
	fmt.Fprintf(cmd.OutOrStdout(), "ReqBot API listening on http://%s%s\n", addr, serveBasePath)
	return serveHTTP(cmd.Context(), addr, handler)
}
