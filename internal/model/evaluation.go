package model

// Summary holds the overall figures of an evaluation.
type Summary struct {
	Correct              int
	Incorrect            int
	Total                int
	Kappa                float64
	MeanAbsoluteError    float64
	RootMeanSquaredError float64
}

// Accuracy returns the share of correctly classified instances in percent.
func (s Summary) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return 100 * float64(s.Correct) / float64(s.Total)
}

// ErrorRate returns the share of misclassified instances in percent.
func (s Summary) ErrorRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return 100 * float64(s.Incorrect) / float64(s.Total)
}

// ClassMetrics are the detailed accuracy figures for one class label.
type ClassMetrics struct {
	Label     string
	Count     int
	TPRate    float64
	FPRate    float64
	Precision float64
	Recall    float64
	F1        float64
}

// EvaluationReport is the outcome of evaluating a classifier on a dataset.
type EvaluationReport struct {
	Summary  Summary
	PerClass []ClassMetrics
	// Confusion rows are actual classes, columns predicted classes.
	Confusion [][]int
	// Labels are the class labels, in the order of the confusion matrix.
	Labels []string
}

// Sum returns the total count of the confusion matrix.
func (r EvaluationReport) Sum() int {
	var sum int
	for _, row := range r.Confusion {
		for _, c := range row {
			sum += c
		}
	}
	return sum
}
