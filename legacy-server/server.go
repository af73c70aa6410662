package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/itbasis/go-clock"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/moose735/TLOED/internal/config"
	"github.com/moose735/TLOED/internal/diag"
	"github.com/moose735/TLOED/internal/ledger"
	"github.com/moose735/TLOED/internal/model"
	"github.com/moose735/TLOED/internal/observability"
)

const serverVersion = "0.3.0"

// ServerConfig is the read-only state shared by every tool call.
type ServerConfig struct {
	Config  *config.Config
	Metrics *observability.Metrics
	Sink    diag.Sink
	Clock   clock.Clock
}

func (cfg ServerConfig) engineClock() clock.Clock {
	if cfg.Clock == nil {
		return clock.New()
	}
	return cfg.Clock
}

// loadHistory reads the history fresh for each call so edits to the data
// directory show up without a restart. On success cfg.Config is replaced by
// a per-call copy with the current season filled from the history.
func (cfg *ServerConfig) loadHistory() (*model.History, error) {
	h, err := ledger.Open(cfg.Config.Data.Root, cfg.Sink)
	if cfg.Metrics != nil {
		n := 0
		if h != nil {
			n = len(h.Seasons())
		}
		cfg.Metrics.RecordHistoryLoad(n, err)
	}
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	cfg.Config = cfg.Config.WithHistory(h)
	return h, nil
}

type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func newMCPServer(cfg ServerConfig) (*mcp.Server, []toolInfo) {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "legacy-mcp",
			Version: serverVersion,
		},
		nil,
	)

	registry := make([]toolInfo, 0, 8)

	addTool(cfg, server, &registry, &mcp.Tool{
		Name:        "league_badges",
		Description: "Badge catalog for every team, or the recent-badge feed",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args LeagueBadgesArgs) (*mcp.CallToolResult, any, error) {
		return toolValue(buildLeagueBadges(cfg, args))
	})

	addTool(cfg, server, &registry, &mcp.Tool{
		Name:        "owner_badges",
		Description: "Badges earned by one owner, newest season first",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args OwnerBadgesArgs) (*mcp.CallToolResult, any, error) {
		return toolValue(buildOwnerBadges(cfg, args))
	})

	addTool(cfg, server, &registry, &mcp.Tool{
		Name:        "league_records",
		Description: "League record book: matchup, playoff, season and streak records with all tied holders",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args LeagueRecordsArgs) (*mcp.CallToolResult, any, error) {
		return toolValue(buildLeagueRecords(cfg, args))
	})

	addTool(cfg, server, &registry, &mcp.Tool{
		Name:        "streak_records",
		Description: "Longest win, loss, highest-score and top-3 streaks across seasons",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args StreakRecordsArgs) (*mcp.CallToolResult, any, error) {
		return toolValue(buildStreakRecords(cfg, args))
	})

	addTool(cfg, server, &registry, &mcp.Tool{
		Name:        "keeper_cost",
		Description: "Draft pick a keeper costs an owner, falling back to earlier rounds",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args KeeperCostArgs) (*mcp.CallToolResult, any, error) {
		return toolValue(buildKeeperCost(cfg, args))
	})

	addTool(cfg, server, &registry, &mcp.Tool{
		Name:        "draft_value",
		Description: "Draft picks scored against the expected value curve, with scaled VORP per position",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args DraftValueArgs) (*mcp.CallToolResult, any, error) {
		return toolValue(buildDraftValue(cfg, args))
	})

	return server, registry
}

// addTool registers a tool and wraps its handler with call metrics.
func addTool[T any](cfg ServerConfig, server *mcp.Server, registry *[]toolInfo, tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, T) (*mcp.CallToolResult, any, error)) {
	*registry = append(*registry, toolInfo{Name: tool.Name, Description: tool.Description})
	mcp.AddTool(server, tool, func(ctx context.Context, req *mcp.CallToolRequest, args T) (*mcp.CallToolResult, any, error) {
		started := time.Now()
		res, out, err := handler(ctx, req, args)
		if cfg.Metrics != nil {
			callErr := err
			if callErr == nil && res != nil && res.IsError {
				callErr = fmt.Errorf("tool error")
			}
			cfg.Metrics.RecordToolCall(tool.Name, started, callErr)
		}
		return res, out, err
	})
}

// apiKeyAuth checks the key in header, or an Authorization bearer token.
// An empty apiKey disables the check.
func apiKeyAuth(apiKey, header string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next.ServeHTTP(w, r)
				return
			}
			key := strings.TrimSpace(r.Header.Get(header))
			if key == "" {
				if authz := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
					key = strings.TrimSpace(authz[7:])
				}
			}
			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func newRouter(cfg ServerConfig, apiKey string, gatherer prometheus.Gatherer) http.Handler {
	server, registry := newMCPServer(cfg)
	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(apiKeyAuth(apiKey, cfg.Config.Server.AuthHeader))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/tools", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		b, _ := json.MarshalIndent(map[string]any{"tools": registry}, "", "  ")
		w.Write(b)
	})

	r.Handle("/metrics", observability.Handler(gatherer))
	r.Handle(cfg.Config.Server.Path, handler)

	return r
}

func toolValue(v any, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return toolError(err), nil, nil
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSONBytes(b), nil, nil
}

func toolJSONBytes(res []byte) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(res)},
		},
	}
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
