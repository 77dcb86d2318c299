package envinfo

import (
	"context"
	"time"

	"webtestkit/internal/log"
	"webtestkit/webapp"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ReportInput defines the input parameters for the environment report
type ReportInput struct {
	PropertyKey string `json:"property_key,omitempty" jsonschema:"optional property key to look up in the context environment"`
}

// ReportOutput defines the output structure for the environment report
type ReportOutput struct {
	ContextID      string   `json:"context_id" jsonschema:"unique id of the application context"`
	State          string   `json:"state" jsonschema:"lifecycle state of the application context"`
	ActiveProfiles []string `json:"active_profiles" jsonschema:"profiles currently active on the context environment"`
	PropertyValue  string   `json:"property_value,omitempty" jsonschema:"value of the requested property, when found"`
	PropertyFound  bool     `json:"property_found" jsonschema:"whether the requested property was found"`
}

// NewReportHandler creates an environment report handler backed by the provided AppContext
func NewReportHandler(appCtx *webapp.AppContext) func(context.Context, *mcp.CallToolRequest, ReportInput) (*mcp.CallToolResult, ReportOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ReportInput) (*mcp.CallToolResult, ReportOutput, error) {
		l := log.Logger().With("component", "env_report")
		startTime := time.Now()
		defer func() {
			l.Infow("env_report completed", "duration", time.Since(startTime))
		}()

		output := ReportOutput{
			ContextID:      appCtx.ID(),
			State:          string(appCtx.State()),
			ActiveProfiles: appCtx.Environment().ActiveProfiles(),
		}

		if input.PropertyKey != "" {
			output.PropertyValue, output.PropertyFound = appCtx.Environment().Property(input.PropertyKey)
		}

		return nil, output, nil
	}
}
