package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"goodstore/app/catalog"
	"goodstore/app/config"
	"goodstore/app/model"
	"goodstore/app/service/filter"
	"goodstore/app/service/venues"

	"github.com/elliotchance/pie/v2"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/samber/do"
)

const (
	serverName    = "goodstore"
	serverVersion = "1.0.0"
	maxResults    = 20
)

var _ do.Shutdownable = (*Service)(nil)

type VenueSource interface {
	Filter(state filter.State) []model.Venue
}

// Service exposes the catalogs and the local venue collection as MCP tools.
type Service struct {
	listen  string
	baseURL string
	venues  VenueSource
	mcp     *server.MCPServer

	mu  sync.Mutex
	sse *server.SSEServer
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewService(cfg.MCP.Listen, cfg.MCP.BaseURL, do.MustInvoke[*venues.Service](di)), nil
}

func NewService(listen, baseURL string, source VenueSource) *Service {
	s := &Service{
		listen:  listen,
		baseURL: baseURL,
		venues:  source,
		mcp:     server.NewMCPServer(serverName, serverVersion, server.WithToolCapabilities(false)),
	}

	s.mcp.AddTool(
		mcp.NewTool("list_categories",
			mcp.WithDescription("List venue categories with their indutyType codes"),
		),
		s.listEntries(catalog.KindCategory),
	)

	s.mcp.AddTool(
		mcp.NewTool("list_regions",
			mcp.WithDescription("List Jeju regions with their emdType codes"),
		),
		s.listEntries(catalog.KindRegion),
	)

	s.mcp.AddTool(
		mcp.NewTool("search_venues",
			mcp.WithDescription("Search the local venue collection"),
			mcp.WithString("search", mcp.Description("Text matched against name and description")),
			mcp.WithString("category", mcp.Description("Category code or \"any\"")),
			mcp.WithString("region", mcp.Description("Region code or \"any\"")),
			mcp.WithString("price_range", mcp.Description("cheap, moderate, expensive (저렴함, 보통, 비쌈) or \"any\"")),
		),
		s.searchVenues,
	)

	return s
}

func (s *Service) Server() *server.MCPServer {
	return s.mcp
}

func (s *Service) listEntries(kind catalog.Kind) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(catalog.Entries(kind))
	}
}

type venueResult struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	Region   string  `json:"region,omitempty"`
	Address  string  `json:"address,omitempty"`
	Phone    string  `json:"phone,omitempty"`
	Rating   float64 `json:"rating,omitempty"`
	Price    string  `json:"price,omitempty"`
}

func (s *Service) searchVenues(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state := filter.State{
		SearchText:   req.GetString("search", ""),
		CategoryCode: req.GetString("category", catalog.Wildcard),
		RegionCode:   req.GetString("region", catalog.Wildcard),
		PriceRange:   req.GetString("price_range", catalog.Wildcard),
	}

	found := s.venues.Filter(state)
	if len(found) == 0 {
		return mcp.NewToolResultText("No venues found"), nil
	}

	if len(found) > maxResults {
		found = found[:maxResults]
	}

	return jsonResult(pie.Map(found, func(v model.Venue) venueResult {
		return venueResult{
			ID:       v.ID,
			Name:     v.Name,
			Category: v.Category,
			Region:   v.Region,
			Address:  v.Address,
			Phone:    v.Phone,
			Rating:   v.Rating,
			Price:    v.Price,
		}
	}))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool result: %w", err)
	}

	return mcp.NewToolResultText(string(data)), nil
}

// Run serves the tools over SSE until ctx is done. It is a no-op when no
// listen address is configured.
func (s *Service) Run(ctx context.Context) error {
	if s.listen == "" {
		return nil
	}

	opts := []server.SSEOption{}
	if s.baseURL != "" {
		opts = append(opts, server.WithBaseURL(s.baseURL))
	}
	sse := server.NewSSEServer(s.mcp, opts...)

	s.mu.Lock()
	s.sse = sse
	s.mu.Unlock()

	errChan := make(chan error, 1)

	go func() {
		slog.Info("MCP server listening", "addr", s.listen)
		errChan <- sse.Start(s.listen)
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		return s.Shutdown()
	}
}

func (s *Service) Shutdown() error {
	s.mu.Lock()
	sse := s.sse
	s.sse = nil
	s.mu.Unlock()

	if sse == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return sse.Shutdown(ctx)
}
