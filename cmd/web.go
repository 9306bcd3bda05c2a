package cmd

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/a-h/templ"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rubiojr/cari/cmd/web/components"
	"github.com/rubiojr/cari/pkg/api"
	"github.com/rubiojr/cari/pkg/indexer"
	"github.com/rubiojr/cari/pkg/render"
	"github.com/rubiojr/cari/pkg/search"
	"github.com/rubiojr/cari/pkg/storage"
	"github.com/rubiojr/cari/pkg/version"
	"github.com/urfave/cli/v3"
)

//go:embed web/static/*
var staticFS embed.FS

// WebCommand creates the web command with both API and UI
func WebCommand() *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Start web server with both API endpoints and HTML interface",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "port",
				Usage: "Port to listen on (defaults to [web] port)",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind to (defaults to [web] host)",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Reindex automatically when the corpus folder changes",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return startWebServer(ctx, c.String("config"), c.String("host"), c.String("port"), c.Bool("watch"))
		},
	}
}

// WebServer holds the server configuration and dependencies
type WebServer struct {
	backend   *backend
	apiServer *api.Server
	palette   render.Palette
}

func newWebServer(b *backend) *WebServer {
	return &WebServer{
		backend:   b,
		apiServer: api.NewServer(b.service, b.reindexer, b.hub),
		palette:   render.Palette(b.cfg.Palette),
	}
}

// Handler returns the API and UI routes behind gzip compression.
func (s *WebServer) Handler() http.Handler {
	r := api.NewRouter(s.backend.cfg.Web.AllowedOrigins)
	s.apiServer.RegisterRoutes(r)

	r.Get("/", s.handleHome)
	r.Get("/ui/results", s.handleResults)
	r.Get("/ui/categories", s.handleCategories)
	r.Get("/ui/analysis", s.handleAnalysis)
	r.Get("/static/*", s.handleStatic)

	return compress(r)
}

// compress gzips every response except the websocket event stream.
func compress(next http.Handler) http.Handler {
	gz := gzhttp.GzipHandler(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/events" {
			next.ServeHTTP(w, r)
			return
		}
		gz.ServeHTTP(w, r)
	})
}

// startWebServer starts the web server with both API and UI
func startWebServer(ctx context.Context, configPath, host, port string, watch bool) error {
	b, err := loadBackend(configPath)
	if err != nil {
		return err
	}
	defer closeBackend(b)

	if host != "" {
		b.cfg.Web.Host = host
	}
	if port != "" {
		b.cfg.Web.Port = port
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if watch || b.cfg.Watch {
		go func() {
			if err := b.reindexer.Watch(ctx, indexer.DefaultDebounce); err != nil {
				logger.Errorf("corpus watcher stopped: %v", err)
			}
		}()
	}

	server := &http.Server{
		Addr:              b.cfg.Addr(),
		Handler:           newWebServer(b).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Starting web server on http://%s", server.Addr)
		logger.Infof("Available endpoints:")
		logger.Infof("  Web UI:")
		logger.Infof("    GET / - Search page")
		logger.Infof("    GET /ui/results, /ui/categories, /ui/analysis - Page fragments")
		logger.Infof("  API:")
		logger.Infof("    GET /search - Ranked full text search")
		logger.Infof("    GET /categories - Category list")
		logger.Infof("    GET /stats - Index statistics")
		logger.Infof("    GET|POST /reindex - Start a reindex job")
		logger.Infof("    GET /analyze - Corpus analysis")
		logger.Infof("    GET /events - Websocket index events")
		logger.Infof("    GET /health - Health check")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-sigCh:
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("web server: %w", err)
	}

	logger.Infof("Shutting down web server...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}

// handleHome renders the search page. The startup panel is evaluated once
// per page load from the index statistics.
func (s *WebServer) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cfg := s.backend.cfg

	var payloadError string
	var total int
	var requestFailed bool
	stats, err := s.backend.service.Stats(ctx)
	switch {
	case errors.Is(err, storage.ErrNotIndexed):
		payloadError = api.NotIndexedMessage
	case err != nil:
		logger.Warnf("startup status check failed: %v", err)
		requestFailed = true
	default:
		total = stats.TotalDocuments
	}

	categories, err := s.backend.service.Categories(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotIndexed) {
		logger.Warnf("loading categories: %v", err)
	}

	data := components.PageData{
		Title:         "Cari - Pencarian Dokumen",
		Version:       version.BuildVersion(),
		Panel:         render.StartupPanel(payloadError, total, requestFailed),
		Categories:    render.CategoryOptions(categories, search.AllCategories),
		QuickSearches: cfg.QuickSearches,
		Settings: components.Settings{
			PageSize:       cfg.PageSize,
			ReindexDelayMS: cfg.ReindexDelay.Milliseconds(),
			Messages:       components.ClientMessages(),
		},
	}

	s.renderComponent(w, r, http.StatusOK, components.Page(data))
}

// handleResults renders one page of search results as an HTML fragment
func (s *WebServer) handleResults(w http.ResponseWriter, r *http.Request) {
	params := search.ParseSearchParams(r.URL.Query())
	if params.Query == "" {
		s.renderComponent(w, r, http.StatusBadRequest, components.Panel(render.ErrorPanel(render.MsgEmptyQuery)))
		return
	}

	start := time.Now()
	results, err := s.backend.service.Search(r.Context(), params)
	if err != nil {
		logger.Errorf("search %q failed: %v", params.Query, err)
		s.renderComponent(w, r, http.StatusInternalServerError, components.Panel(render.ErrorPanel(render.MsgSearchError)))
		return
	}

	resp := api.NewSearchResponse(results)
	view := render.BuildSearchView(&resp, params.Query, resp.Page, resp.Limit, time.Since(start), s.palette)
	s.renderComponent(w, r, http.StatusOK, components.Results(view))
}

// handleCategories renders the category <option> list, keeping the
// selected value when it is still offered
func (s *WebServer) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.backend.service.Categories(r.Context())
	if err != nil && !errors.Is(err, storage.ErrNotIndexed) {
		logger.Warnf("loading categories: %v", err)
		http.Error(w, "failed to load categories", http.StatusInternalServerError)
		return
	}

	opts := render.CategoryOptions(categories, r.URL.Query().Get("selected"))
	s.renderComponent(w, r, http.StatusOK, components.CategoryOptions(opts))
}

// handleAnalysis renders the analysis modal body. Failures are rendered
// inline so the modal can show them.
func (s *WebServer) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	var view render.AnalysisView
	analysis, err := s.backend.service.Analyze(r.Context(), search.DefaultTopWords)
	switch {
	case errors.Is(err, storage.ErrNotIndexed):
		view = render.BuildAnalysisView(&api.AnalyzeResponse{Error: api.NotIndexedMessage}, nil, s.palette)
	case err != nil:
		logger.Errorf("analysis failed: %v", err)
		view = render.BuildAnalysisView(nil, err, s.palette)
	default:
		resp := api.NewAnalyzeResponse(analysis)
		view = render.BuildAnalysisView(&resp, nil, s.palette)
	}
	s.renderComponent(w, r, http.StatusOK, components.Analysis(view))
}

var staticTypes = map[string]string{
	".css":  "text/css; charset=utf-8",
	".js":   "application/javascript",
	".html": "text/html; charset=utf-8",
	".ico":  "image/x-icon",
	".png":  "image/png",
	".svg":  "image/svg+xml",
}

// handleStatic serves static assets from embedded files
func (s *WebServer) handleStatic(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/static/")
	content, err := staticFS.ReadFile("web/static/" + path.Clean(name))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if ct, ok := staticTypes[path.Ext(name)]; ok {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")

	if _, err := w.Write(content); err != nil {
		logger.Warnf("writing static content: %v", err)
	}
}

func (s *WebServer) renderComponent(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logger.Errorf("template error: %v", err)
	}
}
