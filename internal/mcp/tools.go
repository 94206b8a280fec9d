// ABOUTME: MCP tool definitions and registration for the document chat server
// ABOUTME: Defines JSON schemas for the ingest and question-answering tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/docchat/internal/server"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(srv *mcpserver.MCPServer, ingestor server.Ingestor, answerer server.Answerer) *Handlers {
	handlers := &Handlers{
		ingestor: ingestor,
		answerer: answerer,
	}

	// 1. ingest_document - Index a document so it becomes retrievable
	srv.AddTool(mcp.Tool{
		Name:        "ingest_document",
		Description: "Index a document into the knowledge base. The text is split into chunks, embedded, and stored for retrieval.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Full text of the document to index",
				},
				"source_id": map[string]interface{}{
					"type":        "string",
					"description": "Optional identifier for the document (default: generated)",
				},
			},
			Required: []string{"text"},
		},
	}, handlers.IngestDocument)

	// 2. ask_question - Answer a question against the indexed documents
	srv.AddTool(mcp.Tool{
		Name:        "ask_question",
		Description: "Answer a question using the indexed documents. Retrieves the most relevant chunks and generates a grounded answer.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Question to answer from the knowledge base",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.AskQuestion)

	return handlers
}
