package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/jakoblorz/go-remote-context/internal/config"
	"github.com/jakoblorz/go-remote-context/internal/service"
	"github.com/spf13/cobra"
)

// ActivateCommand handles the activate command
type ActivateCommand struct {
	svc *service.Service

	path string
}

// NewActivateCommand creates a new activate command
func NewActivateCommand(svc *service.Service) *cobra.Command {
	cmd := &ActivateCommand{svc: svc}

	cobraCmd := &cobra.Command{
		Use:   "activate [project-type] [profile]",
		Short: "Activate a profile for a project type",
		Long: `Activate a profile for a project type. The project type's other
profiles are deactivated and the configuration is persisted. When the
project type or profile is omitted, an interactive picker is shown.`,
		Args: cobra.MaximumNArgs(2),
		RunE: cmd.Run,
	}

	cobraCmd.Flags().StringVarP(&cmd.path, "path", "p", "", "workspace path (defaults to CONTEXT_WORKDIR or the current directory)")

	return cobraCmd
}

// Run executes the activate command
func (c *ActivateCommand) Run(cmd *cobra.Command, args []string) error {
	snapshot, err := c.svc.LoadConfig(cmd.Context())
	if err != nil {
		return err
	}

	var projectType, profileName string
	if len(args) > 0 {
		projectType = args[0]
	}
	if len(args) > 1 {
		profileName = args[1]
	}

	if projectType == "" {
		projectType, err = pickProjectType(snapshot)
		if err != nil {
			return err
		}
	}
	if profileName == "" {
		profileName, err = pickProfile(snapshot, projectType)
		if err != nil {
			return err
		}
	}

	path := c.path
	if path == "" {
		path = config.WorkdirFromEnv()
	}

	if _, err := c.svc.SetActiveProfile(cmd.Context(), path, projectType, profileName); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s Profile %s activated for %s\n",
		activeStyle.Render("✓"), activeStyle.Render(profileName), projectType)

	return nil
}

func pickProjectType(snapshot *config.Snapshot) (string, error) {
	typeNames := snapshot.ProjectTypeNames()
	if len(typeNames) == 0 {
		return "", fmt.Errorf("no project types configured")
	}

	opts := make([]huh.Option[string], 0, len(typeNames))
	for _, name := range typeNames {
		opts = append(opts, huh.NewOption(name, name))
	}

	var selected string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Project Type").
				Description("Select the project type to configure.").
				Options(opts...).
				Value(&selected),
		),
	)
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("selection aborted: %w", err)
	}
	return selected, nil
}

func pickProfile(snapshot *config.Snapshot, projectType string) (string, error) {
	t, ok := snapshot.ProjectType(projectType)
	if !ok {
		return "", fmt.Errorf("project type %q not found in configuration", projectType)
	}

	profileNames := t.ProfileNames()
	if len(profileNames) == 0 {
		return "", fmt.Errorf("project type %q has no profiles", projectType)
	}

	opts := make([]huh.Option[string], 0, len(profileNames))
	for _, name := range profileNames {
		label := name
		if profile, _ := t.Profile(name); profile != nil && profile.Active {
			label = name + " (active)"
		}
		opts = append(opts, huh.NewOption(label, name))
	}

	var selected string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Profile").
				Description(fmt.Sprintf("Select the profile to activate for %s.", projectType)).
				Options(opts...).
				Value(&selected),
		),
	)
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("selection aborted: %w", err)
	}
	return selected, nil
}
