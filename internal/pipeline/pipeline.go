package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/drakos74/free-learn/internal/analysis"
	"github.com/drakos74/free-learn/internal/loader"
	"github.com/drakos74/free-learn/internal/metrics"
	"github.com/drakos74/free-learn/internal/model"
	"github.com/drakos74/free-learn/internal/prep"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Request is a single analysis request.
type Request struct {
	// Name is the name of the uploaded file, its suffix decides the input format.
	Name string
	Data io.Reader
	// Method is the analysis method e.g. 'kmeans'.
	Method string
	// Evaluation selects the classifier evaluation, 'cross-validation' or anything else for the training set.
	Evaluation string
	// ClassAttribute names the class, the last attribute is used if empty.
	ClassAttribute string
}

// Result is the outcome of one analysis run.
// Exactly one of Report and Err is set.
type Result struct {
	ID       string
	Method   string
	Op       string
	Report   string
	Err      error
	Duration time.Duration
}

// Text renders the result as the text returned to the caller.
// Failures are rendered as messages and never surface as errors.
func (r Result) Text() string {
	if r.Err == nil {
		return r.Report
	}
	if errors.Is(r.Err, model.ErrUnsupportedMethod) {
		return fmt.Sprintf("Unrecognized analysis method: %s", r.Err.Error())
	}
	return fmt.Sprintf("%s: %s", r.Op, r.Err.Error())
}

// Outcome classifies the result for metrics and logs.
func (r Result) Outcome() string {
	switch {
	case r.Err == nil:
		return "ok"
	case errors.Is(r.Err, model.ErrFormat):
		return "format"
	case errors.Is(r.Err, model.ErrValidation):
		return "validation"
	case errors.Is(r.Err, model.ErrUnsupportedMethod):
		return "unsupported"
	}
	return "backend"
}

// Pipeline loads, validates and normalizes the data of each request before handing it to the analyzer.
// It keeps no state between requests.
type Pipeline struct {
	analyzer *analysis.Analyzer
}

// New creates a new pipeline with the default learning backend.
func New(cfg analysis.Config) *Pipeline {
	return With(analysis.New(cfg, analysis.NewLearner(cfg)))
}

// With creates a new pipeline around the given analyzer.
func With(analyzer *analysis.Analyzer) *Pipeline {
	return &Pipeline{
		analyzer: analyzer,
	}
}

// Run executes the request.
// It never panics, any failure ends up in the result error.
func (p *Pipeline) Run(req Request) (result Result) {
	start := time.Now()
	result = Result{
		ID:     uuid.New().String(),
		Method: req.Method,
		Op:     analysis.Op(""),
	}
	label := "unknown"
	defer func() {
		if r := recover(); r != nil {
			result.Report = ""
			result.Err = model.BackendError(fmt.Errorf("%v", r), "unexpected failure")
		}
		result.Duration = time.Since(start)
		metrics.Observer.Observe(label, result.Outcome(), result.Duration)
		if result.Err != nil {
			log.Error().
				Str("id", result.ID).
				Str("method", req.Method).
				Str("outcome", result.Outcome()).
				Err(result.Err).
				Msg("analysis failed")
			return
		}
		log.Info().
			Str("id", result.ID).
			Str("method", req.Method).
			Float64("duration", result.Duration.Seconds()).
			Msg("analysis completed")
	}()

	ds, err := prepare(req)
	if err != nil {
		result.Err = err
		return result
	}
	method, err := analysis.ParseMethod(req.Method)
	if err != nil {
		result.Err = err
		return result
	}
	label = string(method)
	result.Op = analysis.Op(method)
	log.Info().
		Str("id", result.ID).
		Str("method", label).
		Str("relation", ds.Relation).
		Int("rows", ds.NumRows()).
		Int("attributes", ds.NumAttributes()).
		Msg("analysis started")
	result.Report, result.Err = p.analyzer.Dispatch(ds, method, req.Evaluation)
	return result
}

// prepare loads the request data and normalizes it into a valid dataset with a nominal class.
func prepare(req Request) (*model.Dataset, error) {
	ds, err := loader.Load(req.Data, loader.FormatFromName(req.Name))
	if err != nil {
		return nil, err
	}
	if err := prep.Validate(ds); err != nil {
		return nil, err
	}
	ds, err = prep.Normalize(ds, req.ClassAttribute)
	if err != nil {
		return nil, err
	}
	if err := ds.Check(); err != nil {
		return nil, err
	}
	return ds, nil
}

// Analyze runs the request and returns its text.
func (p *Pipeline) Analyze(req Request) string {
	return p.Run(req).Text()
}

// AnalyzeFile runs the analysis on the file at the given path.
func (p *Pipeline) AnalyzeFile(path, method, evaluation string) string {
	f, err := os.Open(path)
	if err != nil {
		return Result{
			Method: method,
			Op:     analysis.Op(""),
			Err:    model.FormatErrorFrom(err, "could not open input"),
		}.Text()
	}
	defer f.Close()
	return p.Analyze(Request{
		Name:       path,
		Data:       f,
		Method:     method,
		Evaluation: evaluation,
	})
}
