package cli

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/jakoblorz/go-remote-context/internal/server"
	"github.com/jakoblorz/go-remote-context/internal/service"
)

// ServeCommand handles the serve command
type ServeCommand struct {
	svc *service.Service
}

// NewServeCommand creates a new serve command
func NewServeCommand(svc *service.Service) *cobra.Command {
	cmd := &ServeCommand{svc: svc}

	cobraCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Long: `Start the MCP server on standard input/output. Clients such as
editors connect here and call the context tools directly.`,
		RunE: cmd.Run,
	}

	return cobraCmd
}

// Run executes the serve command
func (c *ServeCommand) Run(cmd *cobra.Command, args []string) error {
	s := server.New(c.svc)
	if err := mcpserver.ServeStdio(s); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
