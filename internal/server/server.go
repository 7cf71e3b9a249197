package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/iwvelando/biomass-estimator/internal/config"
	"github.com/iwvelando/biomass-estimator/internal/simulation"
	"github.com/iwvelando/biomass-estimator/internal/store"
	"github.com/iwvelando/biomass-estimator/pkg/constants"
	"github.com/iwvelando/biomass-estimator/pkg/estimate"
	"github.com/iwvelando/biomass-estimator/pkg/output"
	"github.com/iwvelando/biomass-estimator/pkg/scenario"
	"github.com/iwvelando/biomass-estimator/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// runSource marks runs recorded through the API.
const runSource = "api"

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	auth          *authService
	runs          *store.RunStore
}

// NewHandler constructs the HTTP handler that serves the estimation API. runs
// may be nil, in which case simulations are not recorded.
func NewHandler(logger *zap.Logger, cfg *Config, runs *store.RunStore, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg, _ = LoadConfig("")
	}

	maxUploadSize := cfg.UploadSizeBytes()
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		auth:          newAuthService(logger, cfg.Auth),
		runs:          runs,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)

	if h.auth != nil {
		r.Use(h.authMiddleware)
		r.Post("/api/login", h.handleLogin)
		r.Post("/api/logout", h.handleLogout)
	}

	r.Get("/healthz", h.handleHealth)
	r.Get("/api/version", h.handleVersion)

	// Reference data
	r.Get("/api/presets", h.handlePresets)
	r.Get("/api/catalog", h.handleCatalog)
	r.Get("/api/catalog/chart", h.handleCatalogChart)

	// One calculator per endpoint
	r.Post("/api/factory", h.handleFactory)
	r.Post("/api/transport", h.handleTransport)
	r.Post("/api/risk", h.handleRisk)
	r.Post("/api/breakeven", h.handleBreakeven)
	r.Post("/api/carbon", h.handleCarbon)
	r.Post("/api/gcv", h.handleGCV)
	r.Post("/api/scenario", h.handleScenario)

	// Whole configurations
	r.Post("/api/simulate", h.handleSimulate)
	r.Post("/api/simulate/upload", h.handleSimulateUpload)
	r.Post("/api/config/export", h.handleConfigExport)
	r.Post("/api/export/{section}", h.handleExport)

	// Run history
	r.Get("/api/runs", h.handleRuns)
	r.Get("/api/runs/{id}", h.handleRun)

	return r
}

func (h *handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Debug("request served",
			zap.String("op", "server.requestLogger"),
			zap.String("requestId", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

type presetsResponse struct {
	FactoryTemplates []scenario.FactoryTemplate `json:"factoryTemplates"`
	Presets          []scenario.Preset          `json:"presets"`
	Risks            []estimate.Risk            `json:"risks"`
	Pitch            scenario.PitchDefaults     `json:"pitch"`
	Custom           scenario.Custom            `json:"custom"`
}

func (h *handler) handlePresets(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, presetsResponse{
		FactoryTemplates: scenario.FactoryTemplates(),
		Presets:          scenario.Presets(),
		Risks:            estimate.Risks(),
		Pitch:            scenario.Pitch(),
		Custom:           scenario.DefaultCustom(),
	})
}

type catalogResponse struct {
	Reference  estimate.Catalog `json:"reference"`
	Simple     estimate.Catalog `json:"simple"`
	Duplicates []string         `json:"duplicates,omitempty"`
}

func (h *handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	simple := estimate.SimpleCatalog()
	h.writeJSON(w, http.StatusOK, catalogResponse{
		Reference:  estimate.ReferenceCatalog(),
		Simple:     simple.Resolved(),
		Duplicates: simple.Duplicates(),
	})
}

type chartResponse struct {
	Points    []estimate.PricePoint `json:"points"`
	LivePrice int                   `json:"livePrice"`
}

func (h *handler) handleCatalogChart(w http.ResponseWriter, r *http.Request) {
	src := estimate.ZeroJitter
	if raw := strings.TrimSpace(r.URL.Query().Get("seed")); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid seed %q", raw), "server.handleCatalogChart")
			return
		}
		src = estimate.NewSeededSource(seed)
	}

	h.writeJSON(w, http.StatusOK, chartResponse{
		Points:    estimate.JitteredSeries(estimate.ReferenceCatalog(), src),
		LivePrice: estimate.LivePrice(src),
	})
}

// Calculator requests start from the dashboard defaults; omitted fields keep them.

type factoryRequest struct {
	Template   string  `json:"template"`
	TonsPerDay float64 `json:"tonsPerDay"`
}

func (h *handler) handleFactory(w http.ResponseWriter, r *http.Request) {
	defaults := config.Default()
	req := factoryRequest{Template: defaults.Factory.Template, TonsPerDay: defaults.Factory.TonsPerDay}
	if !h.decodeJSON(w, r, &req, "server.handleFactory") {
		return
	}

	inputs, err := scenario.ResolveFactory(req.Template, req.TonsPerDay)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), "server.handleFactory")
		return
	}
	h.writeJSON(w, http.StatusOK, estimate.FactorySetup(inputs))
}

func (h *handler) handleTransport(w http.ResponseWriter, r *http.Request) {
	req := config.Default().Transport
	if !h.decodeJSON(w, r, &req, "server.handleTransport") {
		return
	}
	h.writeJSON(w, http.StatusOK, estimate.TransportCost(req))
}

type riskResponse struct {
	estimate.RiskResult
	Mitigations []string `json:"mitigations"`
}

func (h *handler) handleRisk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Selected []string `json:"selected"`
	}
	if !h.decodeJSON(w, r, &req, "server.handleRisk") {
		return
	}

	result := estimate.SimulateRisks(req.Selected)
	h.writeJSON(w, http.StatusOK, riskResponse{RiskResult: result, Mitigations: result.Mitigations()})
}

func (h *handler) handleBreakeven(w http.ResponseWriter, r *http.Request) {
	req := estimate.BreakevenInputs{MonthlyProfit: config.Default().Breakeven.MonthlyProfit}
	if !h.decodeJSON(w, r, &req, "server.handleBreakeven") {
		return
	}
	h.writeJSON(w, http.StatusOK, estimate.Breakeven(req))
}

type carbonResponse struct {
	estimate.CarbonCreditResult
	Summary string `json:"summary"`
}

func (h *handler) handleCarbon(w http.ResponseWriter, r *http.Request) {
	req := config.Default().Carbon
	if !h.decodeJSON(w, r, &req, "server.handleCarbon") {
		return
	}

	result := estimate.CarbonCredit(req)
	h.writeJSON(w, http.StatusOK, carbonResponse{CarbonCreditResult: result, Summary: output.CarbonSummary(result)})
}

type gcvResponse struct {
	Inputs estimate.GcvPricingInputs `json:"inputs"`
	Result estimate.GcvPricingResult `json:"result"`
	Curve  []estimate.PricePoint     `json:"curve"`
}

func (h *handler) handleGCV(w http.ResponseWriter, r *http.Request) {
	conf := config.Default()
	if !h.decodeJSON(w, r, &conf.GCV, "server.handleGCV") {
		return
	}

	inputs, err := conf.GCVInputs()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), "server.handleGCV")
		return
	}
	h.writeJSON(w, http.StatusOK, gcvResponse{
		Inputs: inputs,
		Result: estimate.GcvPricing(inputs),
		Curve:  estimate.ReferenceCurvePoints(),
	})
}

type scenarioRequest struct {
	Template string          `json:"template"`
	Custom   scenario.Custom `json:"custom"`
}

type scenarioResponse struct {
	Scenario scenario.Resolved               `json:"scenario"`
	Result   estimate.CombinedScenarioResult `json:"result"`
	Metrics  []output.Metric                 `json:"metrics"`
}

func (h *handler) handleScenario(w http.ResponseWriter, r *http.Request) {
	req := scenarioRequest{Template: scenario.TemplateCustom, Custom: scenario.DefaultCustom()}
	if !h.decodeJSON(w, r, &req, "server.handleScenario") {
		return
	}

	resolved, err := scenario.ResolveCombined(req.Template, req.Custom, estimate.ReferenceCatalog())
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), "server.handleScenario")
		return
	}

	result := estimate.CombinedScenario(resolved.Inputs)
	h.writeJSON(w, http.StatusOK, scenarioResponse{
		Scenario: resolved,
		Result:   result,
		Metrics:  output.ScenarioMetrics(result),
	})
}

type simulateResponse struct {
	Simulation    simulation.Simulation  `json:"simulation"`
	Metrics       []output.Metric        `json:"metrics"`
	CarbonSummary string                 `json:"carbonSummary"`
	CSV           string                 `json:"csv"`
	Warnings      []string               `json:"warnings,omitempty"`
	Duration      string                 `json:"duration"`
	RunID         string                 `json:"runId,omitempty"`
	Config        map[string]interface{} `json:"config,omitempty"`
	ConfigYAML    string                 `json:"configYaml,omitempty"`
}

func (h *handler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	configBytes, configMap, ok := h.readConfigPayload(w, r, "server.handleSimulate")
	if !ok {
		return
	}

	h.runSimulation(w, r, configBytes, configMap, start, "server.handleSimulate")
}

func (h *handler) handleSimulateUpload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), "server.handleSimulateUpload")
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), "server.handleSimulateUpload")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing configuration file", "server.handleSimulateUpload")
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", "server.handleSimulateUpload"),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), "server.handleSimulateUpload")
		return
	}

	configBytes := buf.Bytes()
	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("error reading config data, %v", err), "server.handleSimulateUpload")
		return
	}

	h.runSimulation(w, r, configBytes, configMap, start, "server.handleSimulateUpload")
}

func (h *handler) runSimulation(w http.ResponseWriter, r *http.Request, configBytes []byte, configMap map[string]interface{}, start time.Time, op string) {
	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	warnings := cfg.ValidateConfiguration()

	sim, err := simulation.GetSimulation(h.logger, *cfg)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to compute simulation: %v", err), op)
		return
	}

	if configMap == nil {
		configMap = make(map[string]interface{})
	}

	var runID string
	if h.runs != nil {
		run, err := h.runs.Save(r.Context(), runSource, configMap, sim)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to record run: %v", err), op)
			return
		}
		runID = run.ID
	}

	elapsed := time.Since(start)
	response := simulateResponse{
		Simulation:    sim,
		Metrics:       output.ScenarioMetrics(sim.Combined),
		CarbonSummary: output.CarbonSummary(sim.Carbon),
		CSV:           output.CsvString(sim),
		Warnings:      warnings,
		Duration:      elapsed.String(),
		RunID:         runID,
		Config:        configMap,
		ConfigYAML:    string(configBytes),
	}

	h.logger.Info("simulation computed",
		zap.String("op", op),
		zap.String("scenario", sim.Scenario.Name),
		zap.Int("warnings", len(warnings)),
		zap.String("runId", runID),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")
	if err := validation.ValidateSection(section); err != nil {
		h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), "server.handleExport")
		return
	}

	configBytes, _, ok := h.readConfigPayload(w, r, "server.handleExport")
	if !ok {
		return
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), "server.handleExport")
		return
	}

	sim, err := simulation.GetSimulation(h.logger, *cfg)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to compute simulation: %v", err), "server.handleExport")
		return
	}

	var buf bytes.Buffer
	if err := output.WriteSection(&buf, sim, section); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), "server.handleExport")
		return
	}

	w.Header().Set("Content-Type", output.SectionContentType(section))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", output.SectionFileName(section)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write export", zap.String("op", "server.handleExport"), zap.Error(err))
	}
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	_, payload, ok := h.readConfigPayload(w, r, "server.handleConfigExport")
	if !ok {
		return
	}

	yamlBytes, err := marshalOrderedConfigYAML(payload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), "server.handleConfigExport")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

func (h *handler) handleRuns(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		h.respondErrorWithOp(w, http.StatusNotFound, "run history is disabled", "server.handleRuns")
		return
	}

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", raw), "server.handleRuns")
			return
		}
		limit = n
	}

	runs, err := h.runs.List(r.Context(), limit)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), "server.handleRuns")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"runs": runs})
}

func (h *handler) handleRun(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		h.respondErrorWithOp(w, http.StatusNotFound, "run history is disabled", "server.handleRun")
		return
	}

	run, err := h.runs.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrRunNotFound) {
		h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), "server.handleRun")
		return
	}
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), "server.handleRun")
		return
	}
	h.writeJSON(w, http.StatusOK, run)
}

// readConfigPayload decodes a JSON configuration body, optionally wrapped as
// {"config": {...}}, and re-encodes it as YAML for the config loader. An
// empty body yields the default configuration.
func (h *handler) readConfigPayload(w http.ResponseWriter, r *http.Request, op string) ([]byte, map[string]interface{}, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		h.respondDecodeError(w, err, op)
		return nil, nil, false
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	if rawConfig, ok := payload["config"]; ok {
		cfgMap, ok := rawConfig.(map[string]interface{})
		if !ok {
			h.respondErrorWithOp(w, http.StatusBadRequest, "invalid config payload: expected object", op)
			return nil, nil, false
		}
		payload = cfgMap
	}

	configBytes, err := yaml.Marshal(payload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return nil, nil, false
	}
	return configBytes, payload, true
}

// decodeJSON decodes a calculator request over the defaults already in dst.
// An empty body keeps the defaults.
func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		h.respondDecodeError(w, err, op)
		return false
	}
	return true
}

func (h *handler) respondDecodeError(w http.ResponseWriter, err error, op string) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
		return
	}
	h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
}

// configKeyOrder is the section order of exported configuration files.
var configKeyOrder = []string{
	"pitchMode", "factory", "transport", "risks", "breakeven", "carbon",
	"gcv", "scenario", "chart", "logging", "output",
}

func marshalOrderedConfigYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range configKeyOrder {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	ordered := orderedConfig{items: items}
	return yaml.Marshal(ordered)
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

func decodeYAMLToMap(data []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return make(map[string]interface{}), nil
	}

	var result map[string]interface{}
	if err := yaml.Unmarshal(trimmed, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = make(map[string]interface{})
	}
	return result, nil
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.String("op", "server.writeJSON"), zap.Error(err))
	}
}
