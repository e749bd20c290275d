package analysis

import (
	"strings"

	"github.com/drakos74/free-learn/internal/math/ml"
	"github.com/drakos74/free-learn/internal/model"
	"github.com/rs/zerolog/log"
)

// Method identifies an analysis.
type Method string

const (
	Clustering     Method = "clustering"
	Classification Method = "classification"
	KMeans         Method = "kmeans"
	NeuralNetwork  Method = "neuralnetwork"
	RandomForest   Method = "randomforest"
)

// CrossValidation is the evaluation that selects k-fold cross-validation.
const CrossValidation = "cross-validation"

var methods = map[string]Method{
	string(Clustering):     Clustering,
	string(Classification): Classification,
	string(KMeans):         KMeans,
	string(NeuralNetwork):  NeuralNetwork,
	string(RandomForest):   RandomForest,
}

var operations = map[Method]string{
	Clustering:     "clustering",
	Classification: "classification",
	KMeans:         "k-means",
	NeuralNetwork:  "neural network",
	RandomForest:   "random forest",
}

// ParseMethod resolves the method name, ignoring case.
func ParseMethod(name string) (Method, error) {
	if m, ok := methods[strings.ToLower(strings.TrimSpace(name))]; ok {
		return m, nil
	}
	return "", model.UnsupportedMethodError(name)
}

// Op returns the label for failures of the method.
func Op(method Method) string {
	if op, ok := operations[method]; ok {
		return "Error performing " + op
	}
	return "Error during analysis"
}

func isCrossValidation(evaluation string) bool {
	return strings.EqualFold(strings.TrimSpace(evaluation), CrossValidation)
}

// Backend trains and evaluates the models behind the analysis methods.
type Backend interface {
	Cluster(ds *model.Dataset, k int) (ml.ClusterModel, error)
	Classify(kind ml.Kind, ds *model.Dataset, mode ml.Mode) (*model.EvaluationReport, error)
}

// Learner is the backend built on the ml package.
type Learner struct {
	kmeans *ml.KMeans
	hyper  ml.Hyper
}

// NewLearner creates a new backend for the given config.
func NewLearner(cfg Config) *Learner {
	return &Learner{
		kmeans: ml.NewKMeans(cfg.KMeansIterations, cfg.KMeansSeed),
		hyper:  cfg.Hyper(),
	}
}

// Cluster trains a k-means model.
func (l *Learner) Cluster(ds *model.Dataset, k int) (ml.ClusterModel, error) {
	return l.kmeans.Train(ds, k)
}

// Classify evaluates a classifier of the given kind.
func (l *Learner) Classify(kind ml.Kind, ds *model.Dataset, mode ml.Mode) (*model.EvaluationReport, error) {
	return ml.Evaluate(ml.NewFactory(kind, l.hyper), ds, mode)
}

// Analyzer runs the analysis methods on prepared datasets.
type Analyzer struct {
	cfg     Config
	backend Backend
}

// New creates a new analyzer.
func New(cfg Config, backend Backend) *Analyzer {
	return &Analyzer{
		cfg:     cfg,
		backend: backend,
	}
}

// Dispatch runs the given method on the dataset and renders its report.
func (a *Analyzer) Dispatch(ds *model.Dataset, method Method, evaluation string) (string, error) {
	log.Debug().
		Str("method", string(method)).
		Str("evaluation", evaluation).
		Int("rows", ds.NumRows()).
		Int("attributes", ds.NumAttributes()).
		Msg("dispatch")
	switch method {
	case Clustering:
		return a.clustering(ds)
	case KMeans:
		return a.kmeans(ds)
	case Classification:
		return a.classify(ml.DecisionTree, ds, evaluation, "Classification results:\n", "\nEvaluation results\n")
	case NeuralNetwork:
		return a.classify(ml.MultilayerPerceptron, ds, evaluation, "", "\nNeural network results\n")
	case RandomForest:
		return a.classify(ml.RandomForest, ds, evaluation, "Random forest results:\n", "\nEvaluation results\n")
	}
	return "", model.UnsupportedMethodError(string(method))
}

// withoutClass strips the class, clusters are unsupervised.
func withoutClass(ds *model.Dataset) *model.Dataset {
	if !ds.HasClass() {
		return ds
	}
	return ds.Remove(ds.ClassIndex)
}

func (a *Analyzer) assign(ds *model.Dataset, k int) (ml.ClusterModel, model.ClusterAssignment, error) {
	clusters, err := a.backend.Cluster(ds, k)
	if err != nil {
		return nil, nil, err
	}
	assignment := make(model.ClusterAssignment, ds.NumRows())
	for i, row := range ds.Rows {
		c, err := clusters.Assign(row)
		if err != nil {
			return nil, nil, err
		}
		assignment[i] = c
	}
	return clusters, assignment, nil
}

func (a *Analyzer) clustering(ds *model.Dataset) (string, error) {
	_, assignment, err := a.assign(withoutClass(ds), a.cfg.ClusteringClusters)
	if err != nil {
		return "", err
	}
	return FormatClusters(assignment), nil
}

func (a *Analyzer) kmeans(ds *model.Dataset) (string, error) {
	clusters, assignment, err := a.assign(withoutClass(ds), a.cfg.KMeansClusters)
	if err != nil {
		return "", err
	}
	// the cluster id is compared to the raw class value as it is
	var incorrect int
	for i, c := range assignment {
		if float64(c) != ds.ClassValue(i) {
			incorrect++
		}
	}
	return FormatKMeans(clusters.SquaredError(), clusters.Centroids(), assignment, incorrect), nil
}

func (a *Analyzer) classify(kind ml.Kind, ds *model.Dataset, evaluation, header, title string) (string, error) {
	report, err := a.backend.Classify(kind, ds, a.cfg.Mode(evaluation))
	if err != nil {
		return "", err
	}
	return header + FormatEvaluation(title, report), nil
}
