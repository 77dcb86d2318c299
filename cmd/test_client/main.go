package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: test_client <tool_name> [args_json]")
		fmt.Println("Example: test_client env_report '{\"property_key\":\"server.port\"}'")
		os.Exit(1)
	}

	toolName := os.Args[1]
	argsJSON := "{}"
	if len(os.Args) > 2 {
		argsJSON = os.Args[2]
	}

	// Parse arguments
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		log.Fatalf("Invalid JSON arguments: %v", err)
	}

	endpoint := os.Getenv("DEMO_SERVER_URL")
	if endpoint == "" {
		endpoint = "http://localhost:8080/mcp"
	}

	fmt.Printf("==> Testing demo server\n")
	fmt.Printf("Endpoint: %s\n", endpoint)
	fmt.Printf("Tool: %s\n", toolName)
	fmt.Printf("Args: %s\n\n", argsJSON)

	ctx := context.Background()

	// Connect over streamable HTTP
	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v1.0.0"}, nil)
	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: endpoint}, nil)
	if err != nil {
		log.Fatalf("Failed to connect to demo server: %v", err)
	}
	defer session.Close()

	// List available tools
	tools, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		log.Fatalf("Failed to list tools: %v", err)
	}
	fmt.Printf("[1] Tools list:\n")
	for _, tool := range tools.Tools {
		fmt.Printf("  - %s: %s\n", tool.Name, tool.Description)
	}
	fmt.Println()

	// Call the requested tool
	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      toolName,
		Arguments: args,
	})
	if err != nil {
		log.Fatalf("Tool call failed: %v", err)
	}

	if result.IsError {
		fmt.Printf("[2] Tool call returned an error:\n")
	} else {
		fmt.Printf("[2] Tool call result:\n")
	}
	if result.StructuredContent != nil {
		fmt.Printf("%s\n\n", prettyJSON(result.StructuredContent))
	}
	for _, content := range result.Content {
		if text, ok := content.(*mcp.TextContent); ok {
			fmt.Printf("%s\n", text.Text)
		}
	}

	fmt.Println("==> Test complete")
}

func prettyJSON(v interface{}) string {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(pretty)
}
