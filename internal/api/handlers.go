package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/trogers1052/limitup-lab/internal/backtest"
	"github.com/trogers1052/limitup-lab/internal/cache"
	"github.com/trogers1052/limitup-lab/internal/config"
	"github.com/trogers1052/limitup-lab/internal/database"
	"github.com/trogers1052/limitup-lab/internal/kafka"
	"github.com/trogers1052/limitup-lab/internal/models"
	"github.com/trogers1052/limitup-lab/internal/pipeline"
	"github.com/trogers1052/limitup-lab/internal/rules"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	db       *database.DB
	cache    *cache.Cache
	producer *kafka.Producer
	cfg      *config.Config
}

// NewHandler creates a new Handler. cache and producer may be nil.
func NewHandler(db *database.DB, c *cache.Cache, producer *kafka.Producer, cfg *config.Config) *Handler {
	return &Handler{
		db:       db,
		cache:    c,
		producer: producer,
		cfg:      cfg,
	}
}

// RunRequest is the body of POST /runs. Zero values fall back to the
// configured defaults.
type RunRequest struct {
	Strategy    string   `json:"strategy,omitempty"`
	FeeBps      *float64 `json:"fee_bps,omitempty"`
	SlippageBps *float64 `json:"slippage_bps,omitempty"`
	Epsilon     string   `json:"epsilon,omitempty"`
	GroupBy     []string `json:"group_by,omitempty"`
}

// RunResponse is the body returned by POST /runs and GET /runs/{id}.
type RunResponse struct {
	Run        *models.Run                `json:"run"`
	Comparison *models.ScenarioComparison `json:"comparison,omitempty"`
	Metrics    []models.ScenarioMetrics   `json:"metrics,omitempty"`
}

// TriggerRun handles POST /runs: it loads the stored dataset, executes the
// labeling + backtest pipeline and persists every output table.
func (h *Handler) TriggerRun(w http.ResponseWriter, r *http.Request) {
	// An empty body means "use the configured defaults".
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cfg, run, err := h.buildRunConfig(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	bars, err := h.db.GetAllDailyBars()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	instruments, err := h.db.GetAllInstruments()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	result, err := pipeline.Run(bars, instruments, cfg)
	if err != nil {
		var schemaErr *models.SchemaError
		if errors.As(err, &schemaErr) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	run.Status = models.RunStatusCompleted
	run.Diagnostics = result.Diagnostics
	if err := h.persistRun(run, result); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if h.producer != nil {
		if err := h.producer.PublishRunCompleted(r.Context(), run.ID, run.Strategy, result.Comparison); err != nil {
			log.Printf("Failed to publish run event: %v", err)
		}
	}

	respondJSON(w, http.StatusCreated, RunResponse{Run: run, Comparison: &result.Comparison})
}

func (h *Handler) buildRunConfig(req RunRequest) (pipeline.Config, *models.Run, error) {
	strategyName := req.Strategy
	if strategyName == "" {
		strategyName = h.cfg.Backtest.Strategy
	}
	strategy, err := backtest.StrategyByName(strategyName)
	if err != nil {
		return pipeline.Config{}, nil, err
	}

	epsilonStr := req.Epsilon
	if epsilonStr == "" {
		epsilonStr = h.cfg.Labeling.Epsilon
	}
	epsilon, err := decimal.NewFromString(epsilonStr)
	if err != nil {
		return pipeline.Config{}, nil, errors.New("epsilon is not a valid decimal")
	}

	ruleset, err := rules.Load(h.cfg.Labeling.RulesPath)
	if err != nil {
		return pipeline.Config{}, nil, err
	}

	costs := backtest.Costs{FeeBps: h.cfg.Backtest.FeeBps, SlippageBps: h.cfg.Backtest.SlippageBps}
	if req.FeeBps != nil {
		costs.FeeBps = *req.FeeBps
	}
	if req.SlippageBps != nil {
		costs.SlippageBps = *req.SlippageBps
	}

	cfg := pipeline.Config{
		Ruleset:  ruleset,
		Epsilon:  epsilon,
		Costs:    costs,
		Strategy: strategy,
		GroupBy:  req.GroupBy,
	}
	run := &models.Run{
		Strategy:    strategyName,
		FeeBps:      costs.FeeBps,
		SlippageBps: costs.SlippageBps,
		Epsilon:     epsilonStr,
	}
	return cfg, run, nil
}

func (h *Handler) persistRun(run *models.Run, result *pipeline.Result) error {
	if err := h.db.CreateRun(run); err != nil {
		return err
	}
	if err := h.db.CreateLabeledBarsBatch(run.ID, result.Labeled); err != nil {
		return err
	}
	if err := h.db.CreateGroupStatsBatch(run.ID, result.Stats); err != nil {
		return err
	}
	for _, scenario := range []backtest.Result{result.Ideal, result.Conservative} {
		if err := h.db.CreateTradesBatch(run.ID, scenario.Trades); err != nil {
			return err
		}
		if err := h.db.CreateEquityPointsBatch(run.ID, scenario.Metrics.FillModel, scenario.Equity); err != nil {
			return err
		}
		metrics := scenario.Metrics
		if err := h.db.SaveScenarioMetrics(run.ID, &metrics); err != nil {
			return err
		}
	}
	return nil
}

// GetRun handles GET /runs/{id}
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromRequest(w, r)
	if !ok {
		return
	}

	run, err := h.db.GetRun(runID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	metrics, err := h.scenarioMetrics(r, runID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, RunResponse{Run: run, Metrics: metrics})
}

func (h *Handler) scenarioMetrics(r *http.Request, runID int) ([]models.ScenarioMetrics, error) {
	if h.cache != nil {
		if metrics, err := h.cache.GetScenarioMetrics(r.Context(), runID); err != nil {
			log.Printf("Metrics cache read failed: %v", err)
		} else if metrics != nil {
			return metrics, nil
		}
	}

	metrics, err := h.db.GetScenarioMetrics(runID)
	if err != nil {
		return nil, err
	}

	if h.cache != nil && len(metrics) > 0 {
		if err := h.cache.SetScenarioMetrics(r.Context(), runID, metrics); err != nil {
			log.Printf("Metrics cache write failed: %v", err)
		}
	}
	return metrics, nil
}

// GetTrades handles GET /runs/{id}/trades?fill_model=IDEAL
func (h *Handler) GetTrades(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromRequest(w, r)
	if !ok {
		return
	}

	fillModel := r.URL.Query().Get("fill_model")
	if fillModel == "" {
		fillModel = models.FillModelConservative
	}
	parsed, err := backtest.ParseFillModel(fillModel)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	trades, err := h.db.GetTrades(runID, string(parsed))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, trades)
}

// GetEquity handles GET /runs/{id}/equity?fill_model=IDEAL
func (h *Handler) GetEquity(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromRequest(w, r)
	if !ok {
		return
	}

	fillModel := r.URL.Query().Get("fill_model")
	if fillModel == "" {
		fillModel = models.FillModelConservative
	}
	parsed, err := backtest.ParseFillModel(fillModel)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	points, err := h.db.GetEquityCurve(runID, string(parsed))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, points)
}

// GetGroupStats handles GET /runs/{id}/stats
func (h *Handler) GetGroupStats(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromRequest(w, r)
	if !ok {
		return
	}

	if h.cache != nil {
		if groupStats, err := h.cache.GetGroupStats(r.Context(), runID); err != nil {
			log.Printf("Group stats cache read failed: %v", err)
		} else if groupStats != nil {
			respondJSON(w, http.StatusOK, groupStats)
			return
		}
	}

	groupStats, err := h.db.GetGroupStats(runID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if h.cache != nil && len(groupStats) > 0 {
		if err := h.cache.SetGroupStats(r.Context(), runID, groupStats); err != nil {
			log.Printf("Group stats cache write failed: %v", err)
		}
	}

	respondJSON(w, http.StatusOK, groupStats)
}

// GetLabeledBars handles GET /runs/{id}/labels
func (h *Handler) GetLabeledBars(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromRequest(w, r)
	if !ok {
		return
	}

	labeled, err := h.db.GetLabeledBars(runID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, labeled)
}

// GetStrategies handles GET /strategies
func (h *Handler) GetStrategies(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, backtest.StrategyNames())
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func runIDFromRequest(w http.ResponseWriter, r *http.Request) (int, bool) {
	vars := mux.Vars(r)
	runID, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "invalid run id", http.StatusBadRequest)
		return 0, false
	}
	return runID, true
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
