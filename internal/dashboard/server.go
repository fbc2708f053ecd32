package dashboard

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"sync"

	"nflverse/ingestion/internal/config"
	"nflverse/ingestion/internal/metrics"
	"nflverse/ingestion/internal/models"
	"nflverse/ingestion/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Server is the dashboard: a form that triggers the exporter as a
// subprocess and surfaces its exit code and captured output.
type Server struct {
	cfg           *config.Config
	runner        Runner
	db            *repository.Database
	currentSeason int
	tmpl          *template.Template

	mu      sync.Mutex
	running bool
	last    *lastRun
}

type lastRun struct {
	Req    RunRequest
	Result RunResult
}

// NewServer creates a dashboard server
func NewServer(cfg *config.Config, runner Runner, db *repository.Database, currentSeason int) *Server {
	return &Server{
		cfg:           cfg,
		runner:        runner,
		db:            db,
		currentSeason: currentSeason,
		tmpl:          template.Must(template.New("index").Parse(indexTemplate)),
	}
}

// Router builds the dashboard routes
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/run", s.handleRunForm)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Post("/run", s.handleRunJSON)
		r.Get("/status", s.handleStatus)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// buildRequest validates form/JSON inputs into a run request
func (s *Server) buildRequest(seasons []int, summaryLevel, advstatsSummary string) (RunRequest, error) {
	if len(seasons) == 0 {
		return RunRequest{}, fmt.Errorf("select at least one season before refreshing")
	}

	req := RunRequest{
		Seasons:         seasons,
		SummaryLevel:    models.SummaryLevel(summaryLevel),
		AdvstatsSummary: models.AdvstatsSummary(advstatsSummary),
		DBPath:          s.cfg.DatabasePath,
	}
	if req.SummaryLevel == "" {
		req.SummaryLevel = models.SummaryReg
	}
	if req.AdvstatsSummary == "" {
		req.AdvstatsSummary = models.AdvstatsWeek
	}

	if !req.SummaryLevel.Valid() {
		return RunRequest{}, fmt.Errorf("invalid summary level %q", summaryLevel)
	}
	if !req.AdvstatsSummary.Valid() {
		return RunRequest{}, fmt.Errorf("invalid advstats summary %q", advstatsSummary)
	}

	return req, nil
}

// execute runs the exporter, allowing one run at a time. The subprocess is
// deliberately detached from the request context: once started, a run is
// not cancellable.
func (s *Server) execute(req RunRequest) (RunResult, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return RunResult{}, fmt.Errorf("a refresh is already in progress")
	}
	s.running = true
	s.mu.Unlock()

	log.Info().
		Ints("seasons", req.Seasons).
		Str("summary_level", string(req.SummaryLevel)).
		Str("advstats_summary", string(req.AdvstatsSummary)).
		Msg("Starting exporter run")

	result := s.runner.Run(context.Background(), req)

	status := "success"
	if !result.Succeeded() {
		status = "failure"
	}
	metrics.RecordRun(status, result.Duration.Seconds())

	log.Info().
		Int("exit_code", result.ExitCode).
		Dur("duration", result.Duration).
		Str("status", status).
		Msg("Exporter run finished")

	s.mu.Lock()
	s.running = false
	s.last = &lastRun{Req: req, Result: result}
	s.mu.Unlock()

	return result, nil
}

type pageData struct {
	SeasonOptions     []int
	CurrentSeason     int
	SummaryLevels     []models.SummaryLevel
	AdvstatsSummaries []models.AdvstatsSummary
	DBPath            string
	Error             string
	Running           bool
	Last              *lastRun
	Ledger            []models.LedgerEntry
}

func (s *Server) page(ctx context.Context, errMsg string) pageData {
	data := pageData{
		CurrentSeason:     s.currentSeason,
		SummaryLevels:     models.SummaryLevels,
		AdvstatsSummaries: models.AdvstatsSummaries,
		DBPath:            s.cfg.DatabasePath,
		Error:             errMsg,
	}

	for season := s.currentSeason; season >= s.cfg.EarliestSeason; season-- {
		data.SeasonOptions = append(data.SeasonOptions, season)
	}

	s.mu.Lock()
	data.Running = s.running
	data.Last = s.last
	s.mu.Unlock()

	if s.db != nil {
		entries, err := s.db.Ledger.ListRecent(ctx, 20)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to read ingestion ledger")
		} else {
			data.Ledger = entries
		}
	}

	return data
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.Execute(w, s.page(r.Context(), errMsg)); err != nil {
		log.Error().Err(err).Msg("Failed to render dashboard page")
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, "")
}

func (s *Server) handleRunForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderPage(w, r, http.StatusBadRequest, "malformed form submission")
		return
	}

	var seasons []int
	for _, raw := range r.Form["season"] {
		season, err := strconv.Atoi(raw)
		if err != nil {
			s.renderPage(w, r, http.StatusBadRequest, fmt.Sprintf("invalid season %q", raw))
			return
		}
		seasons = append(seasons, season)
	}

	req, err := s.buildRequest(seasons, r.FormValue("summary_level"), r.FormValue("advstats_summary"))
	if err != nil {
		s.renderPage(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := s.execute(req); err != nil {
		s.renderPage(w, r, http.StatusConflict, err.Error())
		return
	}

	s.renderPage(w, r, http.StatusOK, "")
}

func (s *Server) handleRunJSON(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Seasons         []int  `json:"seasons"`
		SummaryLevel    string `json:"summary_level"`
		AdvstatsSummary string `json:"advstats_summary"`
	}
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "malformed request body"})
		return
	}

	req, err := s.buildRequest(body.Seasons, body.SummaryLevel, body.AdvstatsSummary)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": err.Error()})
		return
	}

	result, err := s.execute(req)
	if err != nil {
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, map[string]string{"error": err.Error()})
		return
	}

	if !result.Succeeded() {
		render.Status(r, http.StatusBadGateway)
	}
	render.JSON(w, r, result)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := map[string]any{"running": s.running}
	if s.last != nil {
		resp["last"] = s.last.Result
	}
	s.mu.Unlock()

	render.JSON(w, r, resp)
}
