// ABOUTME: MCP tool handler implementations for the document chat server
// ABOUTME: Bridges tool calls into the ingestion and retrieval pipelines
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/docchat/internal/server"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	ingestor server.Ingestor
	answerer server.Answerer
}

// IngestDocument handles the ingest_document tool
func (h *Handlers) IngestDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}

	sourceID := request.GetString("source_id", "")
	if sourceID == "" {
		sourceID = uuid.New().String()
	}

	result, err := h.ingestor.Ingest(ctx, sourceID, text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ingestion failed: %v", err)), nil
	}

	response := map[string]interface{}{
		"source_id": result.SourceID,
		"chunks":    result.ChunkCount,
	}
	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// AskQuestion handles the ask_question tool
func (h *Handlers) AskQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	result, err := h.answerer.Answer(ctx, question)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("question answering failed: %v", err)), nil
	}

	response := map[string]interface{}{
		"answer":  result.Answer,
		"sources": result.Sources,
	}
	if result.Degraded {
		response["degraded"] = true
	}
	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
