package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jakoblorz/go-remote-context/internal/config"
	"github.com/jakoblorz/go-remote-context/internal/fetch"
	"github.com/jakoblorz/go-remote-context/internal/service"
	"github.com/mark3labs/mcp-go/mcp"
)

// FetchContextTool handles the fetch_context_files MCP tool: the full
// detect → resolve → expand → fetch run for a workspace.
type FetchContextTool struct {
	svc *service.Service
}

// NewFetchContextTool creates a FetchContextTool.
func NewFetchContextTool(svc *service.Service) *FetchContextTool {
	return &FetchContextTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *FetchContextTool) Definition() mcp.Tool {
	return mcp.NewTool("fetch_context_files",
		mcp.WithDescription(
			"Fetch remote instructions, chat modes and prompts for the "+
				"workspace based on its detected project types and the active "+
				"profiles, save them under .github/<profile>/<category>/ and "+
				"update the VS Code chat file-location settings. The workspace "+
				"must be inside a git repository.",
		),
		mcp.WithString("workspace_dir",
			mcp.Description("Workspace path. Defaults to the configured working directory."),
		),
	)
}

// fetchResponse is the JSON shape returned to the caller.
type fetchResponse struct {
	Success         bool                `json:"success"`
	RunID           string              `json:"run_id,omitempty"`
	Profile         string              `json:"profile"`
	ProjectTypes    []string            `json:"project_types"`
	Planned         int                 `json:"planned"`
	Succeeded       int                 `json:"succeeded"`
	Failed          int                 `json:"failed"`
	Abandoned       int                 `json:"abandoned,omitempty"`
	Written         []string            `json:"written,omitempty"`
	Failures        []fetchFailure      `json:"failures,omitempty"`
	Expansion       []expansionFailure  `json:"expansion_failures,omitempty"`
	SettingsUpdated bool                `json:"settings_updated"`
}

type fetchFailure struct {
	URL                string `json:"url"`
	Error              string `json:"error"`
	CredentialRequired bool   `json:"credential_required,omitempty"`
}

type expansionFailure struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// Handle processes the fetch_context_files tool call.
func (t *FetchContextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workspaceDir := req.GetString("workspace_dir", config.WorkdirFromEnv())

	report, err := t.svc.FetchContextFiles(ctx, workspaceDir)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp := fetchResponse{
		Success:         true,
		RunID:           report.Result.RunID,
		Profile:         report.ProfileName,
		ProjectTypes:    report.ProjectTypes,
		Planned:         report.Planned,
		Succeeded:       report.Result.Succeeded,
		Failed:          report.Result.Failed,
		Abandoned:       report.Result.Abandoned,
		SettingsUpdated: report.SettingsUpdated,
	}
	for _, outcome := range report.Result.Outcomes {
		if outcome.Succeeded() {
			resp.Written = append(resp.Written, outcome.WrittenPath)
			continue
		}
		resp.Failures = append(resp.Failures, fetchFailure{
			URL:                outcome.File.URL,
			Error:              outcome.Err.Error(),
			CredentialRequired: fetch.IsCredentialRequired(outcome.Err),
		})
	}
	for _, failure := range report.ExpansionFailures {
		resp.Expansion = append(resp.Expansion, expansionFailure{
			Source: failure.Source.Key(),
			Error:  failure.Err.Error(),
		})
	}

	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing fetch report: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
