package generation

import (
	"context"
	"fmt"

	"github.com/quiznest/quiznest-lambda/internal/config"
)

// State of a single pipeline run. Fallback is reachable from every state
// after Idle; Fallback always reaches Done.
type State string

const (
	StateIdle            State = "idle"
	StateExtracting      State = "extracting"
	StateProbingProvider State = "probing_provider"
	StateGenerating      State = "generating"
	StateValidating      State = "validating"
	StateFallback        State = "fallback"
	StateDone            State = "done"
)

// ProgressFunc receives advisory completion percentages at fixed
// checkpoints. Consumers must not block on specific values.
type ProgressFunc func(percent int)

// PipelineInput describes one quiz-creation action. When Text is empty the
// pipeline extracts it from FileURL/MediaType first.
type PipelineInput struct {
	FileURL   string
	MediaType string
	Request   GenerationRequest
}

// Pipeline sequences extraction, prompt construction, the provider call and
// validation, degrading silently to the fallback store when any stage fails.
// Every failure except an exhausted fallback store is absorbed here; callers
// only ever see ErrFallbackExhausted or a canceled context.
type Pipeline struct {
	extractor *Extractor
	fallback  FallbackStore
	selectFn  func(ctx context.Context, id string) Provider
}

func NewPipeline(extractor *Extractor, fallback FallbackStore) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		fallback:  fallback,
		selectFn:  SelectProvider,
	}
}

func (p *Pipeline) Run(ctx context.Context, in PipelineInput, progress ProgressFunc) (*GenerationResult, error) {
	log := config.WithContext(ctx)
	report := func(percent int) {
		if progress != nil {
			progress(percent)
		}
	}

	req := in.Request
	if req.NumQuestions < 1 {
		req.NumQuestions = 1
	}
	if !req.Difficulty.Valid() {
		req.Difficulty = DifficultyMedium
	}

	state := StateIdle
	advance := func(next State) {
		state = next
		log.Debugf("pipeline state: %s", state)
	}

	// The extractor never fails the pipeline.
	advance(StateExtracting)
	report(10)
	if req.Text == "" {
		req.Text = p.extractor.ExtractText(ctx, in.FileURL, in.MediaType)
	}
	report(20)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	advance(StateProbingProvider)
	report(30)
	provider := p.selectFn(ctx, req.Provider)
	if err := provider.Probe(ctx); err != nil {
		log.WithError(err).Warnf("provider %s failed liveness probe, falling back", provider.Name())
		return p.runFallback(ctx, req, report)
	}

	advance(StateGenerating)
	report(45)
	raw, err := provider.Generate(ctx, BuildPrompt(req))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.WithError(err).Warnf("provider %s generation failed, falling back", provider.Name())
		return p.runFallback(ctx, req, report)
	}

	advance(StateValidating)
	report(75)
	questions, err := Normalize(raw, req.Difficulty)
	if err != nil {
		log.WithError(err).Warn("model output failed schema validation, falling back")
		return p.runFallback(ctx, req, report)
	}
	report(80)

	advance(StateDone)
	log.Infof("pipeline reached %s with %d questions from provider %s", state, len(questions), provider.Name())
	return finish(questions, req, report), nil
}

// runFallback is the single Fallback -> Done transition. It must succeed for
// any reachable input; an exhausted store is the sole fatal case.
func (p *Pipeline) runFallback(ctx context.Context, req GenerationRequest, report ProgressFunc) (*GenerationResult, error) {
	log := config.WithContext(ctx)
	log.Debugf("pipeline state: %s", StateFallback)
	report(80)

	questions, err := p.fallback.Select(ctx, req.NumQuestions, req.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("fallback store failed: %w", err)
	}

	log.Infof("pipeline reached %s with %d fallback questions", StateDone, len(questions))
	return finish(questions, req, report), nil
}

// finish stamps the requested difficulty on every question regardless of its
// source and clamps the result to the requested count.
func finish(questions []Question, req GenerationRequest, report ProgressFunc) *GenerationResult {
	if len(questions) > req.NumQuestions {
		questions = questions[:req.NumQuestions]
	}
	for i := range questions {
		questions[i].Difficulty = req.Difficulty
	}

	report(100)
	return &GenerationResult{Questions: questions}
}
