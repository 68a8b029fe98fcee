package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/vbonduro/foodiq/internal/catalog"
	"github.com/vbonduro/foodiq/internal/classify"
	"github.com/vbonduro/foodiq/internal/domain"
	"github.com/vbonduro/foodiq/internal/gateway"
	"github.com/vbonduro/foodiq/internal/labelstore"
	"github.com/vbonduro/foodiq/internal/llm"
	"github.com/vbonduro/foodiq/internal/prompt"
)

var (
	ErrNoIngredients           = errors.New("no ingredients provided")
	ErrNoImage                 = errors.New("no image provided")
	ErrExtractionNotConfigured = errors.New("extraction backend not configured")
)

// Mode names reported by AnalysisService.Mode.
const (
	ModeDemo = "demo"
	ModeLive = "live"
)

// ModelGateway is the subset of gateway.ModelGateway that AnalysisService requires.
type ModelGateway interface {
	RunAnalysis(ctx context.Context, prompt string) (*domain.AnalysisResult, error)
	RunFollowUp(ctx context.Context, prompt string) (*domain.FollowUpResult, error)
}

// Extractor is the subset of gateway.ExtractionGateway that AnalysisService requires.
type Extractor interface {
	Extract(ctx context.Context, imageDataURL string) domain.ExtractionResult
}

// OutcomeRecorder is the subset of store.OutcomeStore that AnalysisService requires.
type OutcomeRecorder interface {
	Record(ctx context.Context, o *domain.Outcome) error
}

type Options struct {
	// ForceDemo answers from the catalog even when a model is configured.
	ForceDemo  bool
	DemoDelay  time.Duration
	DemoJitter time.Duration
	// Timeout bounds each model call. Zero means no extra bound.
	Timeout time.Duration
}

// Reply is the answer to one analysis request. Exactly one of Analysis and
// FollowUp is set.
type Reply struct {
	Analysis   *domain.AnalysisResult
	FollowUp   *domain.FollowUpResult
	Route      domain.Route
	CatalogKey string
}

// Body returns the value to encode as the response body.
func (r *Reply) Body() any {
	if r.FollowUp != nil {
		return r.FollowUp
	}
	return r.Analysis
}

type AnalysisService struct {
	catalog  *catalog.Catalog
	model    ModelGateway
	extract  Extractor
	outcomes OutcomeRecorder
	labels   labelstore.Store
	opts     Options
	logger   *slog.Logger
}

// NewAnalysisService wires the orchestrator. model, extract, outcomes and
// labels may each be nil: without a model every request is answered from the
// catalog, without an extractor Extract fails with ErrExtractionNotConfigured,
// and the outcome log and label archive are skipped.
func NewAnalysisService(
	cat *catalog.Catalog,
	model ModelGateway,
	extract Extractor,
	outcomes OutcomeRecorder,
	labels labelstore.Store,
	opts Options,
	logger *slog.Logger,
) *AnalysisService {
	return &AnalysisService{
		catalog:  cat,
		model:    model,
		extract:  extract,
		outcomes: outcomes,
		labels:   labels,
		opts:     opts,
		logger:   logger,
	}
}

// Mode reports whether analysis requests are answered by the model or the catalog.
func (s *AnalysisService) Mode() string {
	if s.demo() {
		return ModeDemo
	}
	return ModeLive
}

func (s *AnalysisService) demo() bool {
	return s.opts.ForceDemo || s.model == nil
}

// Analyze answers a fresh analysis or a follow-up question. Once ingredients
// are present it never fails: model errors degrade to the catalog answer.
func (s *AnalysisService) Analyze(ctx context.Context, req *domain.AnalysisRequest) (*Reply, error) {
	start := time.Now()
	kind := domain.KindAnalysis
	if req.IsFollowUp() {
		kind = domain.KindFollowUp
	}

	if req.Ingredients == "" {
		s.record(ctx, &domain.Outcome{Kind: kind, Route: domain.RouteFailed, Error: ErrNoIngredients.Error()}, start)
		return nil, ErrNoIngredients
	}

	var reply *Reply
	var liveErr error
	if s.demo() {
		s.delay(ctx)
		reply = s.fromCatalog(req, domain.RouteDemo)
	} else {
		reply, liveErr = s.live(ctx, req)
		if liveErr != nil {
			s.logger.Warn("model call failed, answering from catalog",
				"kind", kind,
				"upstream", llm.IsUpstream(liveErr),
				"parse", llm.IsParse(liveErr),
				"error", liveErr,
			)
			reply = s.fromCatalog(req, domain.RouteFallback)
		}
	}

	o := &domain.Outcome{Kind: kind, Route: reply.Route, CatalogKey: reply.CatalogKey}
	if reply.Analysis != nil {
		o.Verdict = reply.Analysis.Verdict
	}
	if liveErr != nil {
		o.Error = liveErr.Error()
	}
	s.record(ctx, o, start)
	return reply, nil
}

// DefaultAnalysis answers a request whose body could not be read.
func (s *AnalysisService) DefaultAnalysis(ctx context.Context) *domain.AnalysisResult {
	result := s.catalog.Fallback()
	s.record(ctx, &domain.Outcome{Kind: domain.KindAnalysis, Route: domain.RouteDefault, Verdict: result.Verdict}, time.Now())
	return &result
}

func (s *AnalysisService) live(ctx context.Context, req *domain.AnalysisRequest) (*Reply, error) {
	ctx, cancel := s.upstreamContext(ctx)
	defer cancel()

	if req.IsFollowUp() {
		answer, err := s.model.RunFollowUp(ctx, prompt.FollowUp(req.Ingredients, req.Context, req.FollowUp))
		if err != nil {
			return nil, err
		}
		return &Reply{FollowUp: answer, Route: domain.RouteLive}, nil
	}

	result, err := s.model.RunAnalysis(ctx, prompt.Analysis(req.Ingredients))
	if err != nil {
		return nil, err
	}
	return &Reply{Analysis: result, Route: domain.RouteLive}, nil
}

func (s *AnalysisService) fromCatalog(req *domain.AnalysisRequest, route domain.Route) *Reply {
	if req.IsFollowUp() {
		key := classify.FollowUp(req.FollowUp)
		answer := s.catalog.FollowUp(key)
		return &Reply{FollowUp: &answer, Route: route, CatalogKey: string(key)}
	}
	key := classify.Product(req.Ingredients)
	result := s.catalog.Analysis(key)
	return &Reply{Analysis: &result, Route: route, CatalogKey: string(key)}
}

func (s *AnalysisService) upstreamContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.Timeout > 0 {
		return context.WithTimeout(ctx, s.opts.Timeout)
	}
	return context.WithCancel(ctx)
}

// delay simulates model latency in demo mode. It returns early when ctx ends.
func (s *AnalysisService) delay(ctx context.Context) {
	d := s.opts.DemoDelay
	if s.opts.DemoJitter > 0 {
		d += time.Duration(rand.Int63n(int64(s.opts.DemoJitter)))
	}
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// Extract reads the ingredient list from a label photo. Extraction failures
// are reported in the result; only a missing image or a missing extractor
// return an error.
func (s *AnalysisService) Extract(ctx context.Context, req *domain.ExtractionRequest) (domain.ExtractionResult, error) {
	start := time.Now()

	if req.Image == "" {
		s.record(ctx, &domain.Outcome{Kind: domain.KindExtraction, Route: domain.RouteFailed, Error: ErrNoImage.Error()}, start)
		return domain.ExtractionResult{}, ErrNoImage
	}
	if s.extract == nil {
		s.record(ctx, &domain.Outcome{Kind: domain.KindExtraction, Route: domain.RouteFailed, Error: ErrExtractionNotConfigured.Error()}, start)
		return domain.ExtractionResult{}, ErrExtractionNotConfigured
	}

	archiveKey := s.archive(ctx, req.Image)

	callCtx, cancel := s.upstreamContext(ctx)
	defer cancel()
	result := s.extract.Extract(callCtx, req.Image)

	o := &domain.Outcome{Kind: domain.KindExtraction, Route: domain.RouteLive, ArchiveKey: archiveKey}
	if !result.Success {
		o.Route = domain.RouteFailed
		o.Error = result.Error
	}
	s.record(ctx, o, start)
	return result, nil
}

// archive stores the decoded label photo and returns its key, or "" when the
// archive is disabled or the payload is not a recognised image.
func (s *AnalysisService) archive(ctx context.Context, imageDataURL string) string {
	if s.labels == nil {
		return ""
	}
	_, data, err := llm.ParseImageDataURL(imageDataURL)
	if err != nil || len(data) > gateway.MaxImageSize {
		return ""
	}
	mimeType, ok := labelstore.DetectMIME(data)
	if !ok {
		return ""
	}
	key, err := s.labels.Save(ctx, "label", mimeType, bytes.NewReader(data))
	if err != nil {
		s.logger.Error("failed to archive label", "error", err)
		return ""
	}
	s.logger.Debug("label archived", "key", key, "bytes", len(data))
	return key
}

func (s *AnalysisService) record(ctx context.Context, o *domain.Outcome, start time.Time) {
	o.Duration = time.Since(start)
	s.logger.Info("request handled",
		"kind", o.Kind,
		"route", o.Route,
		"catalog_key", o.CatalogKey,
		"duration_ms", o.Duration.Milliseconds(),
	)
	if s.outcomes == nil {
		return
	}
	if err := s.outcomes.Record(context.WithoutCancel(ctx), o); err != nil {
		s.logger.Error("failed to record outcome", "kind", o.Kind, "error", err)
	}
}
