// Package mcp exposes the knowledge base to MCP clients over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/quangdv/declutter/pkg/vecstore"
)

// MCPServer wraps the vector store for MCP tool calls.
type MCPServer struct {
	store *vecstore.Store
}

// Run starts the MCP server on Stdio.
func Run(ctx context.Context, store *vecstore.Store) error {
	s := server.NewMCPServer(
		"declutter",
		"0.1.0",
		server.WithResourceCapabilities(true, true),
		server.WithLogging(),
	)

	ms := &MCPServer{store: store}

	// Resource: Store Summary
	s.AddResource(
		mcp.NewResource(
			"declutter://store/summary",
			"Store Summary",
			mcp.WithResourceDescription("Document counts by type and topic"),
			mcp.WithMIMEType("application/json"),
		),
		ms.handleStoreSummary,
	)

	// Tool: Search Knowledge
	s.AddTool(
		mcp.NewTool(
			"search_knowledge",
			mcp.WithDescription("Semantic search over indexed notes and calendar events."),
			mcp.WithString("query", mcp.Required(), mcp.Description("The search query string")),
			mcp.WithNumber("limit", mcp.Description("Max number of results (default 5)")),
			mcp.WithString("type", mcp.Description("Filter: note, calendar_event, or empty for both")),
		),
		ms.handleSearchKnowledge,
	)

	// Tool: List Topics
	s.AddTool(
		mcp.NewTool(
			"list_topics",
			mcp.WithDescription("List the topics discovered during classification."),
		),
		ms.handleListTopics,
	)

	slog.Info("Starting MCP server on Stdio")
	return server.ServeStdio(s)
}

func (ms *MCPServer) handleStoreSummary(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	byType, byTopic, err := ms.store.Summary()
	if err != nil {
		return nil, fmt.Errorf("summary failed: %w", err)
	}

	jsonBytes, err := json.MarshalIndent(map[string]any{
		"by_type":  byType,
		"by_topic": byTopic,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

func (ms *MCPServer) handleSearchKnowledge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	query, ok := args["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("query argument required"), nil
	}

	limit := 5
	if l, ok := args["limit"].(float64); ok {
		limit = int(l)
	}
	typeFilter, _ := args["type"].(string)
	if typeFilter != "" && typeFilter != vecstore.TypeNote && typeFilter != vecstore.TypeEvent {
		return mcp.NewToolResultError("type must be note or calendar_event"), nil
	}

	results, err := ms.store.Query(ctx, query, limit, typeFilter)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("No results found."), nil
	}

	var formatted []string
	for _, r := range results {
		switch r.Meta.Type {
		case vecstore.TypeEvent:
			formatted = append(formatted, fmt.Sprintf("[%s %s] %s (source: %s, score: %.2f)",
				r.Meta.Date, r.Meta.Time, r.Content, r.Meta.SourceFile, r.Score))
		default:
			formatted = append(formatted, fmt.Sprintf("[%s] %s (source: %s, score: %.2f)",
				r.Meta.Topic, r.Content, r.Meta.SourceFile, r.Score))
		}
	}
	return mcp.NewToolResultText(strings.Join(formatted, "\n")), nil
}

func (ms *MCPServer) handleListTopics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topics, err := ms.store.Topics()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing topics failed: %v", err)), nil
	}
	if len(topics) == 0 {
		return mcp.NewToolResultText("No topics indexed yet."), nil
	}
	return mcp.NewToolResultText(strings.Join(topics, "\n")), nil
}
