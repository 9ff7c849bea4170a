package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jakoblorz/go-remote-context/internal/config"
	"github.com/jakoblorz/go-remote-context/internal/service"
	"github.com/mark3labs/mcp-go/mcp"
)

// WorkspaceContextTool handles the get_workspace_context MCP tool.
// It reports detected project types, framework conditions, git metadata
// and key-manifest summaries so the caller can decide what to fetch.
type WorkspaceContextTool struct {
	svc *service.Service
}

// NewWorkspaceContextTool creates a WorkspaceContextTool.
func NewWorkspaceContextTool(svc *service.Service) *WorkspaceContextTool {
	return &WorkspaceContextTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *WorkspaceContextTool) Definition() mcp.Tool {
	return mcp.NewTool("get_workspace_context",
		mcp.WithDescription(
			"Get comprehensive context about the current workspace: detected "+
				"project types, framework conditions, git repository information "+
				"and key manifest summaries. Use the output as input for other "+
				"context fetching operations.",
		),
		mcp.WithString("workspace_path",
			mcp.Description("Path to the workspace. Defaults to the configured working directory."),
		),
		mcp.WithBoolean("include_git_info",
			mcp.Description("Whether to include git repository information. Defaults to true."),
		),
	)
}

// Handle processes the get_workspace_context tool call.
func (t *WorkspaceContextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workspacePath := req.GetString("workspace_path", config.WorkdirFromEnv())
	includeGit := req.GetBool("include_git_info", true)

	wc := t.svc.WorkspaceContext(workspacePath, includeGit)

	data, err := json.MarshalIndent(wc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing workspace context: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
