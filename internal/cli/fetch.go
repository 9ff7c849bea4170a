package cli

import (
	"fmt"

	"github.com/jakoblorz/go-remote-context/internal/config"
	"github.com/jakoblorz/go-remote-context/internal/fetch"
	"github.com/jakoblorz/go-remote-context/internal/service"
	"github.com/spf13/cobra"
)

// FetchCommand handles the fetch command
type FetchCommand struct {
	svc *service.Service

	path string
}

// NewFetchCommand creates a new fetch command
func NewFetchCommand(svc *service.Service) *cobra.Command {
	cmd := &FetchCommand{svc: svc}

	cobraCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch context files for the workspace",
		Long: `Detect the workspace's project types, resolve the active profiles'
rules, expand repository patterns and download every resolved file into
.github/<profile>/<category>/ at the repository root.`,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().StringVarP(&cmd.path, "path", "p", "", "workspace path (defaults to CONTEXT_WORKDIR or the current directory)")

	return cobraCmd
}

// Run executes the fetch command
func (c *FetchCommand) Run(cmd *cobra.Command, args []string) error {
	path := c.path
	if path == "" {
		path = config.WorkdirFromEnv()
	}

	report, err := c.svc.FetchContextFiles(cmd.Context(), path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	_, _ = fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Fetch %s", report.Result.RunID)))
	_, _ = fmt.Fprintf(out, "Project types: %v\n", report.ProjectTypes)
	_, _ = fmt.Fprintf(out, "Profile:       %s\n", report.ProfileName)
	_, _ = fmt.Fprintf(out, "Planned:       %d file(s)\n\n", report.Planned)

	for _, outcome := range report.Result.Outcomes {
		if outcome.Succeeded() {
			line := fmt.Sprintf("✓ %s", outcome.WrittenPath)
			if outcome.Description != "" {
				line += mutedStyle.Render(fmt.Sprintf("  (%s)", outcome.Description))
			}
			_, _ = fmt.Fprintln(out, line)
			continue
		}
		_, _ = fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("✗ %s: %v", outcome.File.URL, outcome.Err)))
	}

	for _, failure := range report.ExpansionFailures {
		_, _ = fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("✗ expansion of %s failed: %v", failure.Source.Key(), failure.Err)))
	}

	_, _ = fmt.Fprintf(out, "\n%d succeeded, %d failed", report.Result.Succeeded, report.Result.Failed)
	if report.Result.Abandoned > 0 {
		_, _ = fmt.Fprintf(out, " (%d abandoned)", report.Result.Abandoned)
	}
	_, _ = fmt.Fprintln(out)

	if credentialFailure(report) {
		_, _ = fmt.Fprintln(out, mutedStyle.Render("Some sources need credentials. Set GH_TOKEN or GITHUB_TOKEN and retry."))
	}

	if report.Result.Failed > 0 || len(report.ExpansionFailures) > 0 {
		return fmt.Errorf("%d file(s) failed", report.Result.Failed+len(report.ExpansionFailures))
	}
	return nil
}

func credentialFailure(report *service.FetchReport) bool {
	for _, outcome := range report.Result.Failures() {
		if fetch.IsCredentialRequired(outcome.Err) {
			return true
		}
	}
	for _, failure := range report.ExpansionFailures {
		if fetch.IsCredentialRequired(failure.Err) {
			return true
		}
	}
	return false
}
