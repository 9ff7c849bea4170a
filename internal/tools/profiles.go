package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jakoblorz/go-remote-context/internal/config"
	"github.com/jakoblorz/go-remote-context/internal/service"
	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"
)

// ListConfigTool handles the list_context_config MCP tool.
type ListConfigTool struct {
	svc *service.Service
}

// NewListConfigTool creates a ListConfigTool.
func NewListConfigTool(svc *service.Service) *ListConfigTool {
	return &ListConfigTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *ListConfigTool) Definition() mcp.Tool {
	return mcp.NewTool("list_context_config",
		mcp.WithDescription(
			"List the current context configuration: all project types, their "+
				"profiles and the context sources each profile fetches.",
		),
	)
}

// Handle processes the list_context_config tool call.
func (t *ListConfigTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snapshot, err := t.svc.LoadConfig(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("serializing configuration: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// SetActiveProfileTool handles the set_active_profile MCP tool.
type SetActiveProfileTool struct {
	svc *service.Service
}

// NewSetActiveProfileTool creates a SetActiveProfileTool.
func NewSetActiveProfileTool(svc *service.Service) *SetActiveProfileTool {
	return &SetActiveProfileTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *SetActiveProfileTool) Definition() mcp.Tool {
	return mcp.NewTool("set_active_profile",
		mcp.WithDescription(
			"Set the active profile for a project type. Deactivates the "+
				"project type's other profiles, persists the configuration and "+
				"refreshes the VS Code chat file-location settings. Takes effect "+
				"on the next fetch run.",
		),
		mcp.WithString("project_type",
			mcp.Required(),
			mcp.Description("The project type (python, javascript, ...)."),
		),
		mcp.WithString("profile_name",
			mcp.Required(),
			mcp.Description("Name of the profile to activate."),
		),
	)
}

// Handle processes the set_active_profile tool call.
func (t *SetActiveProfileTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectType := req.GetString("project_type", "")
	profileName := req.GetString("profile_name", "")
	if projectType == "" || profileName == "" {
		return mcp.NewToolResultError("'project_type' and 'profile_name' are required"), nil
	}

	if _, err := t.svc.SetActiveProfile(ctx, config.WorkdirFromEnv(), projectType, profileName); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp := map[string]interface{}{
		"success":     true,
		"message":     fmt.Sprintf("Profile %q activated for project type %q", profileName, projectType),
		"directories": service.ProfileDirs(profileName),
	}
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing response: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// AvailableProfilesTool handles the get_available_profiles MCP tool.
type AvailableProfilesTool struct {
	svc *service.Service
}

// NewAvailableProfilesTool creates an AvailableProfilesTool.
func NewAvailableProfilesTool(svc *service.Service) *AvailableProfilesTool {
	return &AvailableProfilesTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *AvailableProfilesTool) Definition() mcp.Tool {
	return mcp.NewTool("get_available_profiles",
		mcp.WithDescription(
			"Get all available profiles for a project type, including which "+
				"one is active and the directories each profile writes to.",
		),
		mcp.WithString("project_type",
			mcp.Required(),
			mcp.Description("The project type (python, javascript, ...)."),
		),
	)
}

// profileInfo describes one profile in the response.
type profileInfo struct {
	Active         bool              `json:"active"`
	Directories    map[string]string `json:"directories"`
	HasAlwaysFetch bool              `json:"has_always_fetch"`
	HasConditional bool              `json:"has_conditional"`
}

// Handle processes the get_available_profiles tool call.
func (t *AvailableProfilesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectType := req.GetString("project_type", "")
	if projectType == "" {
		return mcp.NewToolResultError("'project_type' is required"), nil
	}

	snapshot, err := t.svc.LoadConfig(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	projType, ok := snapshot.ProjectType(projectType)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("project type %q not found", projectType)), nil
	}

	profiles := make(map[string]profileInfo)
	for _, name := range projType.ProfileNames() {
		profile, _ := projType.Profile(name)
		dirs := make(map[string]string, 3)
		for category, dir := range service.ProfileDirs(name) {
			dirs[string(category)] = dir
		}
		profiles[name] = profileInfo{
			Active:         profile.Active,
			Directories:    dirs,
			HasAlwaysFetch: !profile.AlwaysFetch.IsEmpty(),
			HasConditional: len(profile.Conditional) > 0,
		}
	}

	resp := map[string]interface{}{
		"success":      true,
		"project_type": projectType,
		"profiles":     profiles,
	}
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing response: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
