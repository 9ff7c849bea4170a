package cli

import (
	"fmt"
	"strings"

	"github.com/jakoblorz/go-remote-context/internal/models"
	"github.com/jakoblorz/go-remote-context/internal/resolver"
	"github.com/jakoblorz/go-remote-context/internal/service"
	"github.com/spf13/cobra"
)

// ProfilesCommand handles the profiles command
type ProfilesCommand struct {
	svc *service.Service
}

// NewProfilesCommand creates a new profiles command
func NewProfilesCommand(svc *service.Service) *cobra.Command {
	cmd := &ProfilesCommand{svc: svc}

	cobraCmd := &cobra.Command{
		Use:   "profiles",
		Short: "List configured project types and their profiles",
		RunE:  cmd.Run,
	}

	return cobraCmd
}

// Run executes the profiles command
func (c *ProfilesCommand) Run(cmd *cobra.Command, args []string) error {
	snapshot, err := c.svc.LoadConfig(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	typeNames := snapshot.ProjectTypeNames()
	if len(typeNames) == 0 {
		_, _ = fmt.Fprintln(out, "No project types configured.")
		return nil
	}

	for _, typeName := range typeNames {
		projectType, _ := snapshot.ProjectType(typeName)

		_, _ = fmt.Fprintln(out, titleStyle.Render(typeName))
		for _, profileName := range projectType.ProfileNames() {
			profile, _ := projectType.Profile(profileName)

			marker := "  "
			name := profileName
			if profile.Active {
				marker = activeStyle.Render("● ")
				name = activeStyle.Render(profileName)
			}

			details := profileSummary(profileName, profile.Active)
			_, _ = fmt.Fprintf(out, "  %s%s %s\n", marker, name, mutedStyle.Render(details))
		}
		_, _ = fmt.Fprintln(out)
	}

	return nil
}

func profileSummary(profileName string, active bool) string {
	dirs := make([]string, 0, 3)
	for _, category := range models.Categories() {
		dirs = append(dirs, resolver.ProfileDir(profileName, category))
	}
	summary := strings.Join(dirs, ", ")
	if !active {
		return summary
	}
	return summary + " (active)"
}
