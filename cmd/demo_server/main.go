package main

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"mime"
	"net/http"
	"path"

	"webtestkit/internal/log"
	"webtestkit/internal/tools/envinfo"
	"webtestkit/webapp"
	"webtestkit/webtest"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sethvargo/go-envconfig"
)

// ServerConfig defines the demo server configuration read from environment variables
type ServerConfig struct {
	Addr     string   `env:"DEMO_SERVER_ADDR,default=:8080"`
	WebRoot  string   `env:"DEMO_SERVER_WEBROOT,default=testdata/webroot"`
	Profiles []string `env:"DEMO_SERVER_PROFILES,default=demo"`
}

type GreetInput struct {
	Name string `json:"name" jsonschema:"the name of the person to greet"`
}

type GreetOutput struct {
	Greeting string `json:"greeting" jsonschema:"the greeting to tell to the user"`
}

func Greet(ctx context.Context, req *mcp.CallToolRequest, input GreetInput) (
	*mcp.CallToolResult,
	GreetOutput,
	error,
) {
	return nil, GreetOutput{Greeting: "Hi " + input.Name}, nil
}

func main() {
	// Initialize logger
	if err := log.Init(); err != nil {
		stdlog.Fatalf("Failed to initialize logger: %v", err)
	}
	defer log.Sync()

	l := log.Logger()

	// Server config is read from environment variables
	// (DEMO_SERVER_ADDR, DEMO_SERVER_WEBROOT, DEMO_SERVER_PROFILES)
	var cfg ServerConfig
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		l.Fatalw("Failed to load server config from environment", "error", err)
	}

	// Create the application context and register its components
	appCtx := webapp.New()

	// Create an MCP server with multiple tools, served over streamable HTTP.
	server := mcp.NewServer(&mcp.Implementation{Name: "webtestkit-demo", Version: "v1.0.0"}, nil)
	mcp.AddTool(server, &mcp.Tool{Name: "greet", Description: "say hi"}, Greet)
	mcp.AddTool(server, &mcp.Tool{Name: "env_report", Description: "report the application context environment"}, envinfo.NewReportHandler(appCtx))

	appCtx.RegisterComponent("mcp", func(c *webapp.AppContext) error {
		c.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return server
		}, nil))
		return nil
	})

	appCtx.RegisterComponent("health", func(c *webapp.AppContext) error {
		c.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, "OK")
		})
		return nil
	})

	appCtx.RegisterComponent("static", func(c *webapp.AppContext) error {
		c.Handle("/static/", http.StripPrefix("/static", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			serveResource(c, w, r)
		})))
		return nil
	})

	// The builder doubles as the production bootstrap for this demo:
	// it seeds the server environment with the web root and refreshes
	// the context exactly once.
	harness, err := webtest.NewContextBuilder(appCtx).
		ResourceBasePath(cfg.WebRoot, false).
		ActivateProfiles(cfg.Profiles...).
		Build()
	if err != nil {
		l.Fatalw("Failed to bootstrap application context", "error", err)
	}

	l.Infow("Demo server initialized, starting listener",
		"addr", cfg.Addr,
		"web_root", cfg.WebRoot,
		"context_id", appCtx.ID(),
	)

	if err := http.ListenAndServe(cfg.Addr, harness.Context().Handler()); err != nil {
		l.Fatalw("Server error", "error", err)
	}
}

// serveResource streams a static resource resolved through the server
// context's loader
func serveResource(c *webapp.AppContext, w http.ResponseWriter, r *http.Request) {
	res, err := c.ServerContext().Resource(r.URL.Path)
	if err != nil || !res.Exists() {
		http.NotFound(w, r)
		return
	}

	rc, err := res.Open()
	if err != nil {
		http.Error(w, "failed to open resource", http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	if ct := mime.TypeByExtension(path.Ext(r.URL.Path)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	if _, err := io.Copy(w, rc); err != nil {
		log.Logger().Warnw("Failed to stream resource", "path", r.URL.Path, "error", err)
	}
}
