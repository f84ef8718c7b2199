package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/popchart/pkg/cache"
	"github.com/matzehuels/popchart/pkg/dataset"
	"github.com/matzehuels/popchart/pkg/errors"
	"github.com/matzehuels/popchart/pkg/httputil"
	"github.com/matzehuels/popchart/pkg/pipeline"
	"github.com/matzehuels/popchart/pkg/render"
)

const (
	defaultAddr       = "127.0.0.1:8080"
	requestTimeout    = 60 * time.Second
	shutdownTimeout   = 5 * time.Second
	serveKeyPrefix    = "popchart:"
	renderIDHeader    = "X-Render-ID"
	cacheStatusHeader = "X-Cache"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatHTML: "text/html; charset=utf-8",
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		cf       chartFlags
		addr     string
		redisURL string
		origins  []string
	)

	cmd := &cobra.Command{
		Use:   "serve [source]",
		Short: "Serve the chart over HTTP",
		Long: `Serve the chart over HTTP.

Routes:
  /                   page with the interactive SVG chart
  /chart.{format}     svg, png, pdf, json or html
  /data.csv           the dataset as CSV
  /healthz            liveness check

Chart routes accept width, height and padding query parameters. Rendered
charts are cached in Redis when --redis or ` + redisURLEnv + ` is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := resolveOptions(ctx, cmd, args, &cf)
			if err != nil {
				return err
			}
			if redisURL == "" {
				redisURL = os.Getenv(redisURLEnv)
			}
			return c.runServe(ctx, opts, addr, redisURL, origins)
		},
	}

	addChartFlags(cmd, &cf)
	addRenderFlags(cmd, &cf)
	addRefreshFlag(cmd, &cf)
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", "", "Redis URL for the chart cache, e.g. redis://localhost:6379/0")
	cmd.Flags().StringSliceVar(&origins, "cors-origin", []string{"*"}, "allowed CORS origins")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts pipeline.Options, addr, redisURL string, origins []string) error {
	logger := loggerFromContext(ctx)

	var store cache.Cache = cache.NewNullCache()
	if redisURL != "" {
		rc, err := cache.NewRedisCache(ctx, redisURL)
		if err != nil {
			return err
		}
		store = rc
		logger.Info("caching charts in redis")
	}

	var hc *httputil.Cache
	if dir, err := cacheDir(); err == nil {
		if hc, err = httputil.NewCache(filepath.Join(dir, httpCacheDir), dataset.FetchTTL); err != nil {
			logger.Warn("download cache disabled", "err", err)
		}
	}
	runner := pipeline.NewRunner(store, cache.NewScopedKeyer(nil, serveKeyPrefix), dataset.NewFetcher(hc, logger), logger)
	defer runner.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           newServer(runner, opts, logger).routes(origins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if !render.Available() {
		printWarning("rsvg-convert not found; /chart.pdf will fail")
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	printSuccess("Serving %s on %s", StyleHighlight.Render(opts.Source), StyleLink.Render("http://"+addr))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

// server renders charts for HTTP requests from a fixed base configuration.
type server struct {
	runner *pipeline.Runner
	base   pipeline.Options
	logger *log.Logger
}

func newServer(runner *pipeline.Runner, base pipeline.Options, logger *log.Logger) *server {
	return &server{runner: runner, base: base, logger: logger}
}

func (s *server) routes(origins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, renderID)
	r.Use(middleware.RequestLogger(&logFormatter{logger: s.logger}), middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		ExposedHeaders: []string{renderIDHeader, cacheStatusHeader},
		MaxAge:         300,
	}))

	r.Get("/", s.handleIndex)
	for format := range pipeline.ValidFormats {
		r.Get("/chart."+format, s.handleChart(format))
	}
	r.Get("/data.csv", s.handleData)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// renderID tags every response with a fresh identifier.
func renderID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(renderIDHeader, uuid.NewString())
		next.ServeHTTP(w, r)
	})
}

// requestOptions applies the width, height and padding query overrides.
func (s *server) requestOptions(r *http.Request, format string) (pipeline.Options, error) {
	opts := s.base
	opts.Formats = []string{format}
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  func(float64)
	}{
		{"width", func(v float64) { opts.Width = v }},
		{"height", func(v float64) { opts.Height = v }},
		{"padding", func(v float64) { opts.Padding = &v }},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "query parameter %s=%q is not a number", p.name, raw)
		}
		p.dst(v)
	}
	return opts, opts.ValidateSurface()
}

func (s *server) handleChart(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := s.requestOptions(r, format)
		if err != nil {
			s.respondError(w, err)
			return
		}
		result, err := s.runner.Execute(r.Context(), opts)
		if err != nil {
			s.respondError(w, err)
			return
		}
		w.Header().Set("Content-Type", contentTypes[format])
		w.Header().Set(cacheStatusHeader, cacheStatus(result.CacheInfo.RenderHit))
		_, _ = w.Write(result.Artifacts[format])
	}
}

const indexPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%[1]s</title>
<style>body{font-family:sans-serif;margin:2em}nav a{margin-right:1em}</style>
</head>
<body>
%[2]s
<nav>%[3]s<a href="/data.csv">data.csv</a></nav>
</body>
</html>
`

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	opts, err := s.requestOptions(r, pipeline.FormatSVG)
	if err != nil {
		s.respondError(w, err)
		return
	}
	opts.Interactive = true
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.respondError(w, err)
		return
	}

	var links string
	for _, f := range []string{pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF, pipeline.FormatJSON, pipeline.FormatHTML} {
		links += fmt.Sprintf(`<a href="/chart.%[1]s">%[1]s</a>`, f)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set(cacheStatusHeader, cacheStatus(result.CacheInfo.RenderHit))
	fmt.Fprintf(w, indexPage, html.EscapeString(result.Layout.Title.Text), result.Artifacts[pipeline.FormatSVG], links)
}

// handleData serves the dataset in the input CSV layout, divided back by the
// multiplier.
func (s *server) handleData(w http.ResponseWriter, r *http.Request) {
	ds, err := s.runner.Load(r.Context(), s.base)
	if err != nil {
		s.respondError(w, err)
		return
	}
	mult := s.base.Multiplier
	if mult == 0 {
		mult = dataset.DefaultMultiplier
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{dataset.DefaultCountryColumn, dataset.DefaultPopulationColumn})
	for _, rec := range ds {
		_ = cw.Write([]string{rec.Country, strconv.FormatFloat(rec.Population/mult, 'f', -1, 64)})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		s.logger.Error("write csv", "err", err)
	}
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *server) respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Code: code, Message: errors.UserMessage(err)})
}

// statusFor maps error codes to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrCodeInvalidInput),
		errors.Is(err, errors.ErrCodeInvalidGeometry),
		errors.Is(err, errors.ErrCodeInvalidFormat):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeInvalidCSV),
		errors.Is(err, errors.ErrCodeDegenerateDomain),
		errors.Is(err, errors.ErrCodeDuplicateKey):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errors.ErrCodeNotFound),
		errors.Is(err, errors.ErrCodeFileNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, errors.ErrCodeNetwork):
		return http.StatusBadGateway
	case errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

// logFormatter adapts the charm logger to chi's request logging.
type logFormatter struct {
	logger *log.Logger
}

func (f *logFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	return &logEntry{logger: f.logger.With(
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
	)}
}

type logEntry struct {
	logger *log.Logger
}

func (e *logEntry) Write(status, bytes int, _ http.Header, elapsed time.Duration, _ any) {
	e.logger.Info("request", "status", status, "bytes", bytes, "duration", elapsed.Round(time.Microsecond))
}

func (e *logEntry) Panic(v any, stack []byte) {
	e.logger.Error("panic", "value", v, "stack", string(stack))
}
