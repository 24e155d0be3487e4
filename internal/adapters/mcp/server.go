// Package mcp exposes the recommender as Model Context Protocol tools so
// agents can ask for replacements the same way the HTTP API does.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/okian/scout/internal/adapters/chart"
	"github.com/okian/scout/internal/adapters/http/api"
	service "github.com/okian/scout/internal/app"
	"github.com/okian/scout/pkg/logger"
)

// Tool names.
const (
	ToolRecommend    = "recommend_replacements"
	ToolListAthletes = "list_athletes"
	ToolListFeatures = "list_features"
)

// Dependencies are the service operations the tools call.
type Dependencies interface {
	Recommend(ctx context.Context, name, priority string) service.Outcome
	Athletes(ctx context.Context, selectableOnly bool) []service.AthleteSummary
	Features(ctx context.Context) []string
}

// RecommendArgs is the input schema for recommend_replacements.
type RecommendArgs struct {
	Player       string `json:"player" jsonschema:"Reference athlete name (required)"`
	PriorityStat string `json:"priority_stat,omitempty" jsonschema:"Statistic to prioritize, or none"`
}

// ListAthletesArgs is the input schema for list_athletes.
type ListAthletesArgs struct {
	All bool `json:"all,omitempty" jsonschema:"Include athletes that cannot be used as a reference"`
}

// ListFeaturesArgs is the input schema for list_features (no parameters).
type ListFeaturesArgs struct{}

// Tools implements the tool handlers.
type Tools struct {
	deps Dependencies
	log  logger.Logger
}

// NewTools creates the tool handlers over deps.
func NewTools(deps Dependencies) *Tools {
	return &Tools{deps: deps, log: logger.Named("mcp")}
}

// NewServer creates an MCP server with every tool registered.
func NewServer(deps Dependencies, version string) *sdk.Server {
	server := sdk.NewServer(&sdk.Implementation{Name: "scout", Version: version}, nil)
	t := NewTools(deps)

	sdk.AddTool(server, &sdk.Tool{
		Name:        ToolRecommend,
		Description: "Suggest a cheaper, a similarly priced and a pricier replacement for an athlete within its role",
	}, t.Recommend)
	sdk.AddTool(server, &sdk.Tool{
		Name:        ToolListAthletes,
		Description: "List athlete names that can be used as a reference",
	}, t.ListAthletes)
	sdk.AddTool(server, &sdk.Tool{
		Name:        ToolListFeatures,
		Description: "List the statistics accepted as priority_stat",
	}, t.ListFeatures)
	return server
}

// Handler serves server over streamable HTTP with JSON responses.
func Handler(server *sdk.Server) http.Handler {
	return sdk.NewStreamableHTTPHandler(func(*http.Request) *sdk.Server {
		return server
	}, &sdk.StreamableHTTPOptions{JSONResponse: true})
}

// Recommend handles recommend_replacements. The first content block is the
// text summary, the second the JSON result.
func (t *Tools) Recommend(ctx context.Context, _ *sdk.CallToolRequest, args RecommendArgs) (*sdk.CallToolResult, any, error) {
	player := strings.TrimSpace(args.Player)
	if player == "" {
		return toolError(fmt.Errorf("player is required")), nil, nil
	}
	out := t.deps.Recommend(ctx, player, args.PriorityStat)
	switch out.Status {
	case service.StatusOK:
	case service.StatusUnknownAthlete, service.StatusUnknownStat:
		return toolError(out.Err), nil, nil
	default:
		t.log.Error(ctx, "tool call failed",
			logger.String("tool", ToolRecommend),
			logger.String("id", out.ID),
			logger.Error(out.Err),
		)
		return toolError(fmt.Errorf("recommendation failed (id %s)", out.ID)), nil, nil
	}

	var summary bytes.Buffer
	if err := chart.WriteSummary(&summary, out.Result); err != nil {
		return toolError(err), nil, nil
	}
	b, err := json.MarshalIndent(api.NewRecommendationResponse(out), "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return &sdk.CallToolResult{
		Content: []sdk.Content{
			&sdk.TextContent{Text: summary.String()},
			&sdk.TextContent{Text: string(b)},
		},
	}, nil, nil
}

// ListAthletes handles list_athletes.
func (t *Tools) ListAthletes(ctx context.Context, _ *sdk.CallToolRequest, args ListAthletesArgs) (*sdk.CallToolResult, any, error) {
	return toolJSON(map[string]any{"athletes": t.deps.Athletes(ctx, !args.All)})
}

// ListFeatures handles list_features.
func (t *Tools) ListFeatures(ctx context.Context, _ *sdk.CallToolRequest, _ ListFeaturesArgs) (*sdk.CallToolResult, any, error) {
	return toolJSON(map[string]any{"options": t.deps.Features(ctx)})
}

func toolJSON(v any) (*sdk.CallToolResult, any, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return &sdk.CallToolResult{
		Content: []sdk.Content{
			&sdk.TextContent{Text: string(b)},
		},
	}, nil, nil
}

func toolError(err error) *sdk.CallToolResult {
	return &sdk.CallToolResult{
		IsError: true,
		Content: []sdk.Content{
			&sdk.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
