// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools that depend on abstractions. No business
// logic lives here, only wiring.
package server

import (
	"github.com/jakoblorz/go-remote-context/internal/service"
	"github.com/jakoblorz/go-remote-context/internal/tools"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools registered.
func New(svc *service.Service) *server.MCPServer {
	s := server.NewMCPServer(
		"remote-context",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	workspaceContextTool := tools.NewWorkspaceContextTool(svc)
	s.AddTool(workspaceContextTool.Definition(), workspaceContextTool.Handle)

	fetchTool := tools.NewFetchContextTool(svc)
	s.AddTool(fetchTool.Definition(), fetchTool.Handle)

	listConfigTool := tools.NewListConfigTool(svc)
	s.AddTool(listConfigTool.Definition(), listConfigTool.Handle)

	setProfileTool := tools.NewSetActiveProfileTool(svc)
	s.AddTool(setProfileTool.Definition(), setProfileTool.Handle)

	availableProfilesTool := tools.NewAvailableProfilesTool(svc)
	s.AddTool(availableProfilesTool.Definition(), availableProfilesTool.Handle)

	return s
}

func serverInstructions() string {
	return `remote-context resolves and fetches remote context files
(instructions, chat modes, prompts) for the current workspace.

Typical flow:
1. get_workspace_context: inspect detected project types and conditions.
2. get_available_profiles / set_active_profile: pick the rule bundle.
3. fetch_context_files: download everything the active profiles resolve
   to under .github/<profile>/<category>/ and update VS Code settings.

Configuration lives in the YAML document named by CONTEXT_CONFIG_FILE
(default context_config.yaml). A GH_TOKEN or GITHUB_TOKEN enables
wildcard expansion against private repositories.`
}
