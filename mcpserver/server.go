package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mdbplc/advisor"
)

const Version = "1.0.0"

// New builds an MCP server exposing the advisor over stdio-capable tools:
// a conversational chat tool and a raw knowledge-base search tool.
func New(client *advisor.Client) *server.MCPServer {
	s := server.NewMCPServer(
		"midland-bank-advisor",
		Version,
		server.WithInstructions("Bank advisory server answering Midland Bank product and service questions from its knowledge base"),
	)

	s.AddTool(
		mcp.NewTool("chat",
			mcp.WithDescription("Answer a customer question about Midland Bank using knowledge-base retrieval and generation"),
			mcp.WithString("message", mcp.Required(), mcp.Description("The customer's question")),
			mcp.WithString("session_id", mcp.Description("Session identifier for conversation continuity")),
		),
		handleChat(client),
	)

	s.AddTool(
		mcp.NewTool("search",
			mcp.WithDescription("Search the bank knowledge base and return the ranked, shaped context for a query"),
			mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
			mcp.WithNumber("top_k", mcp.Description("Maximum number of documents to consider")),
		),
		handleSearch(client),
	)

	return s
}

// ServeStdio runs the server on stdin/stdout until the stream closes.
func ServeStdio(client *advisor.Client) error {
	return server.ServeStdio(New(client))
}

func handleChat(client *advisor.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		message, err := req.RequireString("message")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sessionID := req.GetString("session_id", "")
		return mcp.NewToolResultText(client.HandleMessage(ctx, sessionID, message)), nil
	}
}

func handleSearch(client *advisor.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		q, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		topK := req.GetInt("top_k", 0)
		blob, err := client.Retrieve(ctx, q, topK)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
		}
		if blob == "" {
			return mcp.NewToolResultText("No relevant documents found."), nil
		}
		return mcp.NewToolResultText(blob), nil
	}
}
