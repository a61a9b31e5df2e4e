// Package mcp exposes the action catalog as MCP tools over stdio, so any MCP
// client can drive the album the same way the HTTP execute endpoint does.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sandevgo/pixbot/internal/core"
	"github.com/sandevgo/pixbot/internal/service/agent"
	"github.com/sandevgo/pixbot/pkg/log"
)

const chatToolSchema = `{
	"type": "object",
	"properties": {
		"query": {
			"type": "string",
			"description": "Free-text request, e.g. 'photos of my dog from last summer'"
		},
		"session_id": {
			"type": "string",
			"description": "Session id from a previous turn, for multi-turn context"
		},
		"top_k": {
			"type": "integer",
			"description": "Maximum number of results"
		}
	},
	"required": ["query"]
}`

type Server struct {
	agent *agent.Agent
	mcp   *server.MCPServer
	in    io.Reader
	out   io.Writer
}

func NewServer(a *agent.Agent) *Server {
	s := &Server{
		agent: a,
		mcp:   server.NewMCPServer(core.PixName, core.PixVersion),
		in:    os.Stdin,
		out:   os.Stdout,
	}

	s.mcp.AddTool(
		mcp.NewToolWithRawSchema("chat", "Run one conversational turn against the photo album", json.RawMessage(chatToolSchema)),
		s.handleChat,
	)

	for _, def := range a.Actions() {
		s.mcp.AddTool(
			mcp.NewToolWithRawSchema(def.Action, def.Description, def.Parameters),
			s.actionHandler(def.Action),
		)
	}

	return s
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting mcp server on stdio")
	return server.NewStdioServer(s.mcp).Listen(ctx, s.in, s.out)
}

func (s *Server) Shutdown(ctx context.Context) error {
	// Listen stops when the start context is cancelled.
	return nil
}

func (s *Server) handleChat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	resp, err := s.agent.Chat(ctx, agent.ChatRequest{
		Query:     stringArg(args, "query"),
		SessionID: stringArg(args, "session_id"),
		TopK:      intArg(args, "top_k"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(resp)
}

func (s *Server) actionHandler(action string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, suggestions, err := s.agent.Execute(ctx, action, req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(map[string]any{
			"result":      res,
			"suggestions": suggestions,
		})
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool result: %w", err)
	}
	return mcp.NewToolResultText(string(raw)), nil
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
