package analysis

import (
	"github.com/drakos74/free-learn/internal/math/ml"
)

// ConfigKey is the key of the analysis config under infra/config.
const ConfigKey = "analysis"

// Config holds the tunable constants of the analysis methods.
type Config struct {
	// ClusteringClusters is the number of clusters for the 'clustering' method.
	ClusteringClusters int `json:"clustering_clusters" mapstructure:"clustering_clusters"`
	// KMeansClusters is the number of clusters for the 'kmeans' method.
	KMeansClusters int `json:"kmeans_clusters" mapstructure:"kmeans_clusters"`
	// KMeansIterations bounds the k-means iterations.
	KMeansIterations int `json:"kmeans_iterations" mapstructure:"kmeans_iterations"`
	// KMeansSeed picks the initial centroids.
	KMeansSeed int64 `json:"kmeans_seed" mapstructure:"kmeans_seed"`
	// Folds is the number of cross-validation folds.
	Folds int `json:"folds" mapstructure:"folds"`
	// Seed seeds the cross-validation shuffle.
	Seed int64 `json:"seed" mapstructure:"seed"`
	// PruneSplit is the share of data held out for pruning the decision tree, 0 disables pruning.
	PruneSplit float64 `json:"prune_split" mapstructure:"prune_split"`
	// LearningRate, Momentum, Epochs and HiddenLayers configure the neural network.
	LearningRate float64 `json:"learning_rate" mapstructure:"learning_rate"`
	Momentum     float64 `json:"momentum" mapstructure:"momentum"`
	Epochs       int     `json:"epochs" mapstructure:"epochs"`
	HiddenLayers string  `json:"hidden_layers" mapstructure:"hidden_layers"`
	WeightSeed   int64   `json:"weight_seed" mapstructure:"weight_seed"`
	// Trees is the size of the random forest.
	Trees int `json:"trees" mapstructure:"trees"`
}

// DefaultConfig returns the default analysis config.
func DefaultConfig() Config {
	return Config{
		ClusteringClusters: 3,
		KMeansClusters:     2,
		KMeansIterations:   500,
		KMeansSeed:         10,
		Folds:              10,
		Seed:               1,
		PruneSplit:         0,
		LearningRate:       0.1,
		Momentum:           0.2,
		Epochs:             400,
		HiddenLayers:       "a",
		WeightSeed:         0,
		Trees:              100,
	}
}

// Hyper returns the classifier hyper-parameters of the config.
func (c Config) Hyper() ml.Hyper {
	return ml.Hyper{
		PruneSplit:   c.PruneSplit,
		LearningRate: c.LearningRate,
		Momentum:     c.Momentum,
		Epochs:       c.Epochs,
		HiddenLayers: c.HiddenLayers,
		WeightSeed:   c.WeightSeed,
		Trees:        c.Trees,
	}
}

// Mode returns the evaluation mode for the requested evaluation.
// Only 'cross-validation' selects k-fold evaluation, anything else trains and tests on the same data.
func (c Config) Mode(evaluation string) ml.Mode {
	if isCrossValidation(evaluation) {
		return ml.CrossValidation(c.Folds, c.Seed)
	}
	return ml.TrainTest()
}
