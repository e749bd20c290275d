package analysis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/drakos74/free-learn/internal/model"
	"github.com/olekukonko/tablewriter"
)

// FormatClusters renders the cluster of every instance.
func FormatClusters(assignment model.ClusterAssignment) string {
	b := new(strings.Builder)
	b.WriteString("Clustering results:\n")
	for i, c := range assignment {
		b.WriteString(fmt.Sprintf("Instance %d in Cluster %d\n", i, c))
	}
	return b.String()
}

// FormatKMeans renders the k-means diagnostics.
// The number of clusters is the number of centroids, which can be below the requested one.
func FormatKMeans(sse float64, centroids []model.Centroid, assignment model.ClusterAssignment, incorrect int) string {
	k := len(centroids)
	b := new(strings.Builder)
	b.WriteString("kMeans\n======\n\n")
	b.WriteString(fmt.Sprintf("Number of clusters: %d\n", k))
	b.WriteString(fmt.Sprintf("Within cluster sum of squared errors: %s\n\n", model.FormatDouble(sse)))

	b.WriteString("Final cluster centroids:\n")
	for i, centroid := range centroids {
		b.WriteString(fmt.Sprintf("Cluster %d: ", i))
		for _, v := range centroid {
			b.WriteString(model.FormatDouble(v))
			b.WriteString(", ")
		}
		b.WriteString("\n")
	}

	sizes := make([]int, k)
	for _, c := range assignment {
		if c >= 0 && c < k {
			sizes[c]++
		}
	}
	n := float64(len(assignment))
	b.WriteString("\nClustered Instances:\n")
	for i, size := range sizes {
		b.WriteString(fmt.Sprintf("Cluster %d: %d (%s%%)\n", i, size, model.FormatDouble(float64(size)*100.0/n)))
	}

	b.WriteString(fmt.Sprintf("\nIncorrectly clustered instances: %s (%s%%)\n",
		model.FormatDouble(float64(incorrect)),
		model.FormatDouble(float64(incorrect)/n*100)))
	return b.String()
}

// FormatEvaluation renders the summary, the per class details and the confusion matrix of the evaluation.
func FormatEvaluation(title string, report *model.EvaluationReport) string {
	b := new(strings.Builder)
	b.WriteString(FormatSummary(title, report.Summary))
	b.WriteString("\n\n")
	b.WriteString(FormatDetails(report))
	b.WriteString("\n\n=== Confusion Matrix ===\n\n")
	b.WriteString(FormatConfusion(report))
	return b.String()
}

// FormatSummary renders the overall figures of the evaluation.
func FormatSummary(title string, s model.Summary) string {
	b := new(strings.Builder)
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%-40s%5d%14s %%\n", "Correctly Classified Instances", s.Correct, decimal(s.Accuracy())))
	b.WriteString(fmt.Sprintf("%-40s%5d%14s %%\n", "Incorrectly Classified Instances", s.Incorrect, decimal(s.ErrorRate())))
	b.WriteString(fmt.Sprintf("%-40s%10s\n", "Kappa statistic", decimal(s.Kappa)))
	b.WriteString(fmt.Sprintf("%-40s%10s\n", "Mean absolute error", decimal(s.MeanAbsoluteError)))
	b.WriteString(fmt.Sprintf("%-40s%10s\n", "Root mean squared error", decimal(s.RootMeanSquaredError)))
	b.WriteString(fmt.Sprintf("%-40s%5d", "Total Number of Instances", s.Total))
	return b.String()
}

// FormatDetails renders the per class accuracy figures.
func FormatDetails(report *model.EvaluationReport) string {
	b := new(strings.Builder)
	b.WriteString("=== Detailed Accuracy By Class ===\n\n")
	table := tablewriter.NewWriter(b)
	table.SetHeader([]string{"", "TP Rate", "FP Rate", "Precision", "Recall", "F-Measure", "Class"})
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetColumnSeparator("")
	table.SetCenterSeparator("")
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	var weighted [5]float64
	total := float64(report.Summary.Total)
	for _, c := range report.PerClass {
		values := [5]float64{c.TPRate, c.FPRate, c.Precision, c.Recall, c.F1}
		row := []string{""}
		for i, v := range values {
			row = append(row, fixed(v))
			if total > 0 {
				weighted[i] += v * float64(c.Count) / total
			}
		}
		table.Append(append(row, c.Label))
	}
	row := []string{"Weighted Avg."}
	for _, v := range weighted {
		row = append(row, fixed(v))
	}
	table.Append(append(row, ""))
	table.Render()
	return b.String()
}

// FormatConfusion renders the confusion matrix, rows are actual classes and columns predicted ones.
func FormatConfusion(report *model.EvaluationReport) string {
	ids := make([]string, len(report.Labels))
	width := 1
	for i := range report.Labels {
		ids[i] = shortID(i)
		if len(ids[i]) > width {
			width = len(ids[i])
		}
	}
	for _, row := range report.Confusion {
		for _, c := range row {
			if l := len(strconv.Itoa(c)); l > width {
				width = l
			}
		}
	}
	b := new(strings.Builder)
	for _, id := range ids {
		b.WriteString(fmt.Sprintf(" %*s", width, id))
	}
	b.WriteString("   <-- classified as\n")
	for i, row := range report.Confusion {
		for _, c := range row {
			b.WriteString(fmt.Sprintf(" %*d", width, c))
		}
		b.WriteString(fmt.Sprintf(" | %s = %s\n", ids[i], report.Labels[i]))
	}
	return b.String()
}

// shortID names the class at the given index with letters: a, b, ... z, aa, ab ...
func shortID(i int) string {
	id := ""
	for n := i; n >= 0; n = n/26 - 1 {
		id = string(rune('a'+n%26)) + id
	}
	return id
}

// decimal renders the number with at most 4 decimal digits.
func decimal(f float64) string {
	s := strconv.FormatFloat(f, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

func fixed(f float64) string {
	return strconv.FormatFloat(f, 'f', 3, 64)
}
