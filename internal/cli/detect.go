package cli

import (
	"encoding/json"
	"fmt"

	"github.com/jakoblorz/go-remote-context/internal/config"
	"github.com/jakoblorz/go-remote-context/internal/service"
	"github.com/spf13/cobra"
)

// DetectCommand handles the detect command
type DetectCommand struct {
	svc *service.Service

	path  string
	noGit bool
}

// NewDetectCommand creates a new detect command
func NewDetectCommand(svc *service.Service) *cobra.Command {
	cmd := &DetectCommand{svc: svc}

	cobraCmd := &cobra.Command{
		Use:   "detect",
		Short: "Show what the workspace is made of",
		Long: `Inspect a workspace and report its detected project types,
framework conditions, git metadata and key manifest summaries as JSON.`,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().StringVarP(&cmd.path, "path", "p", "", "workspace path (defaults to CONTEXT_WORKDIR or the current directory)")
	cobraCmd.Flags().BoolVar(&cmd.noGit, "no-git", false, "skip git repository information")

	return cobraCmd
}

// Run executes the detect command
func (c *DetectCommand) Run(cmd *cobra.Command, args []string) error {
	path := c.path
	if path == "" {
		path = config.WorkdirFromEnv()
	}

	wc := c.svc.WorkspaceContext(path, !c.noGit)

	data, err := json.MarshalIndent(wc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize workspace context: %w", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
