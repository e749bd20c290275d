package ml

import (
	"math"
	"math/rand"
	"sort"

	"github.com/drakos74/free-learn/internal/model"
	"github.com/rs/zerolog/log"
	"github.com/sjwhitworth/golearn/evaluation"
	"gonum.org/v1/gonum/floats"
)

// Mode describes how a classifier is evaluated.
// Zero folds means training and testing on the same data.
type Mode struct {
	Folds int
	Seed  int64
}

// TrainTest evaluates on the training data itself.
func TrainTest() Mode {
	return Mode{}
}

// CrossValidation evaluates with stratified k-fold cross-validation.
func CrossValidation(folds int, seed int64) Mode {
	return Mode{
		Folds: folds,
		Seed:  seed,
	}
}

// IsCrossValidation returns true for k-fold evaluation.
func (m Mode) IsCrossValidation() bool {
	return m.Folds > 0
}

type prediction struct {
	actual    int
	predicted int
	dist      []float64
}

// Evaluate trains models with the factory and evaluates them on the dataset.
func Evaluate(factory Factory, ds *model.Dataset, mode Mode) (*model.EvaluationReport, error) {
	if err := checkClass(ds); err != nil {
		return nil, err
	}
	var predictions []prediction
	var err error
	if mode.IsCrossValidation() {
		predictions, err = crossValidate(factory, ds, mode)
	} else {
		predictions, err = trainTest(factory, ds)
	}
	if err != nil {
		return nil, err
	}
	return report(ds, predictions), nil
}

func trainTest(factory Factory, ds *model.Dataset) ([]prediction, error) {
	m, err := factory(ds)
	if err != nil {
		return nil, err
	}
	return predict(m, ds, ds.Rows)
}

func crossValidate(factory Factory, ds *model.Dataset, mode Mode) ([]prediction, error) {
	n := ds.NumRows()
	if mode.Folds < 2 {
		return nil, model.BackendError(nil, "cross-validation needs at least 2 folds, got %d", mode.Folds)
	}
	if mode.Folds > n {
		return nil, model.BackendError(nil, "cannot have %d folds with only %d instances", mode.Folds, n)
	}
	order := rand.New(rand.NewSource(mode.Seed)).Perm(n)
	// stratify, so that every fold gets its share of each class
	sort.SliceStable(order, func(i, j int) bool {
		return classOf(ds, ds.Rows[order[i]]) < classOf(ds, ds.Rows[order[j]])
	})
	predictions := make([]prediction, 0, n)
	for f := 0; f < mode.Folds; f++ {
		train := make([]int, 0, n)
		test := make([]model.Instance, 0, n/mode.Folds+1)
		for p, r := range order {
			if p%mode.Folds == f {
				test = append(test, ds.Rows[r])
			} else {
				train = append(train, r)
			}
		}
		m, err := factory(ds.Subset(train))
		if err != nil {
			return nil, err
		}
		fold, err := predict(m, ds, test)
		if err != nil {
			return nil, err
		}
		predictions = append(predictions, fold...)
	}
	log.Debug().
		Int("folds", mode.Folds).
		Int64("seed", mode.Seed).
		Int("instances", n).
		Msg("cross-validation")
	return predictions, nil
}

func predict(m Model, ds *model.Dataset, rows []model.Instance) ([]prediction, error) {
	predictions := make([]prediction, len(rows))
	for i, row := range rows {
		c, dist, err := m.Predict(row)
		if err != nil {
			return nil, err
		}
		if c < 0 || c >= ds.NumClasses() {
			return nil, model.BackendError(nil, "predicted class %d out of range", c)
		}
		predictions[i] = prediction{
			actual:    classOf(ds, row),
			predicted: c,
			dist:      dist,
		}
	}
	return predictions, nil
}

func report(ds *model.Dataset, predictions []prediction) *model.EvaluationReport {
	labels := append([]string{}, ds.Class().Values...)
	k := len(labels)
	confusion := make([][]int, k)
	for i := range confusion {
		confusion[i] = make([]int, k)
	}
	cm := make(evaluation.ConfusionMatrix, k)
	for _, l := range labels {
		cm[l] = make(map[string]int, k)
	}

	summary := model.Summary{Total: len(predictions)}
	var absolute, squared float64
	for _, p := range predictions {
		confusion[p.actual][p.predicted]++
		cm[labels[p.actual]][labels[p.predicted]]++
		if p.actual == p.predicted {
			summary.Correct++
		} else {
			summary.Incorrect++
		}
		actual := oneHot(k, p.actual)
		dist := make([]float64, k)
		copy(dist, p.dist)
		absolute += floats.Distance(dist, actual, 1)
		d := floats.Distance(dist, actual, 2)
		squared += d * d
	}
	if n := float64(len(predictions) * k); n > 0 {
		summary.MeanAbsoluteError = absolute / n
		summary.RootMeanSquaredError = math.Sqrt(squared / n)
	}
	summary.Kappa = kappa(confusion, len(predictions))

	perClass := make([]model.ClassMetrics, k)
	for i, l := range labels {
		var count, fp, tn int
		for a := range confusion {
			for p := range confusion[a] {
				switch {
				case a == i:
					count += confusion[a][p]
				case p == i:
					fp += confusion[a][p]
				default:
					tn += confusion[a][p]
				}
			}
		}
		perClass[i] = model.ClassMetrics{
			Label:     l,
			Count:     count,
			TPRate:    number(evaluation.GetRecall(l, cm)),
			FPRate:    ratio(fp, fp+tn),
			Precision: number(evaluation.GetPrecision(l, cm)),
			Recall:    number(evaluation.GetRecall(l, cm)),
			F1:        number(evaluation.GetF1Score(l, cm)),
		}
	}
	return &model.EvaluationReport{
		Summary:   summary,
		PerClass:  perClass,
		Confusion: confusion,
		Labels:    labels,
	}
}

// kappa computes Cohen's kappa statistic of the confusion matrix.
func kappa(confusion [][]int, total int) float64 {
	if total == 0 {
		return 0
	}
	n := float64(total)
	var observed, chance float64
	for i := range confusion {
		var row, col float64
		for j := range confusion {
			row += float64(confusion[i][j])
			col += float64(confusion[j][i])
		}
		observed += float64(confusion[i][i])
		chance += row * col
	}
	observed /= n
	chance /= n * n
	if chance >= 1 {
		return 1
	}
	return (observed - chance) / (1 - chance)
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

// number replaces the undefined results of empty classes with 0.
func number(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
