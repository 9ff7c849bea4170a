package cli

import (
	"fmt"
	"net/http"

	"github.com/jakoblorz/go-remote-context/internal/config"
	"github.com/jakoblorz/go-remote-context/internal/fetch"
	"github.com/jakoblorz/go-remote-context/internal/filesystem"
	"github.com/jakoblorz/go-remote-context/internal/git"
	"github.com/jakoblorz/go-remote-context/internal/github"
	"github.com/jakoblorz/go-remote-context/internal/service"
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command
func NewRootCommand(svc *service.Service) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "remote-context",
		Short: "Fetch remote context files for the current workspace",
		Long: `A tool that detects what a workspace is made of, resolves the
matching context profiles and fetches instructions, chat modes and
prompts from remote sources into .github/<profile>/<category>/.

Run without a subcommand to start the MCP server on stdio.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to `remote-context serve` when no subcommand is provided.
			return (&ServeCommand{svc: svc}).Run(cmd, args)
		},
	}

	// Add subcommands
	rootCmd.AddCommand(NewServeCommand(svc))
	rootCmd.AddCommand(NewDetectCommand(svc))
	rootCmd.AddCommand(NewFetchCommand(svc))
	rootCmd.AddCommand(NewProfilesCommand(svc))
	rootCmd.AddCommand(NewActivateCommand(svc))

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	fs := filesystem.NewOSFileSystem()
	gitClient := git.NewOSGitClient()

	token := config.TokenFromEnv()
	ghClient := github.NewClientFromEnv(token)

	store := config.NewStore(fs, config.ConfigPathFromEnv(),
		config.WithHTTPClient(http.DefaultClient),
		config.WithToken(token),
	)
	pipeline := fetch.NewPipeline(fs, fetch.WithToken(token))

	svc := service.New(fs, gitClient, ghClient, store, pipeline)

	rootCmd := NewRootCommand(svc)

	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command failed: %w", err)
	}

	return nil
}
