package ml

import (
	"math"
	"math/rand"

	"github.com/cdipaolo/goml/cluster"
	"github.com/drakos74/free-learn/internal/model"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
)

// KMeans trains k-means cluster models.
type KMeans struct {
	iterations int
	seed       int64
}

// NewKMeans creates a k-means clusterer running at most the given iterations.
// The seed picks the initial centroids.
func NewKMeans(iterations int, seed int64) *KMeans {
	return &KMeans{
		iterations: iterations,
		seed:       seed,
	}
}

// Clusters is a trained k-means model.
type Clusters struct {
	ds        *model.Dataset
	model     *cluster.KMeans
	centroids []model.Centroid
	sse       float64
}

// Train clusters the dataset into at most k groups.
// Every attribute takes part, so the class should have been removed beforehand.
// There are fewer than k clusters when the dataset has fewer than k distinct instances
// or when a cluster loses all its members.
func (km *KMeans) Train(ds *model.Dataset, k int) (ClusterModel, error) {
	if ds == nil || ds.NumRows() == 0 {
		return nil, model.BackendError(nil, "no instances to cluster")
	}
	if k < 1 {
		return nil, model.BackendError(nil, "invalid number of clusters %d", k)
	}
	if ds.NumRows() < k {
		return nil, model.BackendError(nil, "cannot form %d clusters out of %d instances", k, ds.NumRows())
	}
	data := make([][]float64, ds.NumRows())
	for i, row := range ds.Rows {
		data[i] = features(ds, row)
	}

	// goml only provides the nearest centroid step.
	// NewKMeans reseeds the global source and Learn writes the means into the rows it seeded from.
	c := &Clusters{
		ds:    ds,
		model: &cluster.KMeans{},
	}
	c.update(seeds(data, k, rand.New(rand.NewSource(km.seed))))

	assignment := make([]int, len(data))
	for i := range assignment {
		assignment[i] = -1
	}
	iterations := 0
	for iterations < km.iterations || iterations == 0 {
		iterations++
		changed := false
		for i := range data {
			g, err := c.assign(data[i])
			if err != nil {
				return nil, err
			}
			if g != assignment[i] {
				assignment[i] = g
				changed = true
			}
		}
		centroids, dropped := means(data, assignment, len(c.centroids))
		c.update(centroids)
		if !changed && !dropped {
			break
		}
	}

	for i := range data {
		g, err := c.assign(data[i])
		if err != nil {
			return nil, err
		}
		d := floats.Distance(data[i], c.centroids[g], 2)
		c.sse += d * d
	}
	log.Debug().
		Int("k", k).
		Int("clusters", len(c.centroids)).
		Int("iterations", iterations).
		Int("instances", len(data)).
		Float64("sse", c.sse).
		Msg("k-means")
	return c, nil
}

// seeds picks up to k distinct rows in random order as the initial centroids.
func seeds(data [][]float64, k int, r *rand.Rand) []model.Centroid {
	centroids := make([]model.Centroid, 0, k)
	for _, i := range r.Perm(len(data)) {
		if len(centroids) == k {
			break
		}
		duplicate := false
		for _, c := range centroids {
			if floats.Equal(c, data[i]) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			centroids = append(centroids, append(model.Centroid{}, data[i]...))
		}
	}
	return centroids
}

// means computes the centroid of every non-empty cluster.
// Empty clusters are dropped and the assignment is renumbered in place.
func means(data [][]float64, assignment []int, k int) ([]model.Centroid, bool) {
	sums := make([][]float64, k)
	counts := make([]int, k)
	for i, g := range assignment {
		if sums[g] == nil {
			sums[g] = make([]float64, len(data[i]))
		}
		floats.Add(sums[g], data[i])
		counts[g]++
	}
	ids := make([]int, k)
	centroids := make([]model.Centroid, 0, k)
	for g := range sums {
		if counts[g] == 0 {
			ids[g] = -1
			continue
		}
		ids[g] = len(centroids)
		floats.Scale(1/float64(counts[g]), sums[g])
		centroids = append(centroids, sums[g])
	}
	dropped := len(centroids) < k
	if dropped {
		for i, g := range assignment {
			assignment[i] = ids[g]
		}
	}
	return centroids, dropped
}

// Assign returns the cluster of the given instance.
func (c *Clusters) Assign(x model.Instance) (int, error) {
	if len(x) != c.ds.NumAttributes() {
		return 0, model.BackendError(nil, "instance has %d values, expected %d", len(x), c.ds.NumAttributes())
	}
	return c.assign(features(c.ds, x))
}

func (c *Clusters) update(centroids []model.Centroid) {
	c.centroids = centroids
	c.model.Centroids = make([][]float64, len(centroids))
	for i, centroid := range centroids {
		c.model.Centroids[i] = centroid
	}
}

func (c *Clusters) assign(f []float64) (int, error) {
	var guess []float64
	err := guard("k-means assignment", func() error {
		var err error
		guess, err = c.model.Predict(f)
		return err
	})
	if err != nil {
		return 0, err
	}
	g := int(math.Round(guess[0]))
	if g < 0 || g >= len(c.centroids) {
		return 0, model.BackendError(nil, "cluster %d out of range", g)
	}
	return g, nil
}

// Centroids returns the cluster centres, the mean of the members of each cluster.
func (c *Clusters) Centroids() []model.Centroid {
	return c.centroids
}

// SquaredError returns the within cluster sum of squared errors.
func (c *Clusters) SquaredError() float64 {
	return c.sse
}
