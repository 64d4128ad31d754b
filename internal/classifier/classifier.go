// Package classifier implements the k-nearest-neighbor face classifier.
// The labeled dataset is held in memory and searched through an HNSW graph;
// reported distances are always recomputed exactly from the stored vectors.
package classifier

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/coder/hnsw"

	"github.com/kozaktomas/face-tagger/internal/constants"
)

// HNSW graph parameters for 128-dim face embeddings
const (
	// graphMaxNeighbors (M) is the maximum number of neighbors per node.
	graphMaxNeighbors = 16

	// graphEfSearch is the search candidate pool size.
	graphEfSearch = 100

	// searchMultiplier requests extra candidates from the graph so the
	// exact re-ranking step has enough to pick the true k nearest from.
	searchMultiplier = 3
)

// Classifier is a fitted KNN model over labeled face embeddings.
type Classifier struct {
	samples   [][]float32
	labels    []string
	k         int
	dim       int
	createdAt time.Time
	graph     *hnsw.Graph[int64]
}

// Fit builds a classifier from parallel sample and label slices. The
// neighbor count is fixed at min(5, sample count).
func Fit(samples [][]float32, labels []string) (*Classifier, error) {
	now := time.Now().UTC().Truncate(time.Second)
	k := min(constants.MaxNeighbors, len(samples))
	return build(samples, labels, k, now)
}

// build validates the dataset and constructs the search graph. Shared by
// Fit and Load so the on-disk format stays a plain dataset dump.
func build(samples [][]float32, labels []string, k int, createdAt time.Time) (*Classifier, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples to fit")
	}
	if len(samples) != len(labels) {
		return nil, fmt.Errorf("sample/label count mismatch: %d vs %d", len(samples), len(labels))
	}
	if k < 1 || k > len(samples) {
		return nil, fmt.Errorf("invalid neighbor count %d for %d samples", k, len(samples))
	}

	dim := len(samples[0])
	if dim == 0 {
		return nil, fmt.Errorf("zero-dimensional samples")
	}
	for i, s := range samples {
		if len(s) != dim {
			return nil, fmt.Errorf("sample %d has dimension %d, expected %d", i, len(s), dim)
		}
	}

	g := hnsw.NewGraph[int64]()
	g.M = graphMaxNeighbors
	g.Ml = 1.0 / float64(graphMaxNeighbors) // Standard HNSW formula
	g.EfSearch = graphEfSearch
	g.Distance = hnsw.EuclideanDistance

	for i := range samples {
		g.Add(hnsw.MakeNode(int64(i), samples[i]))
	}

	return &Classifier{
		samples:   samples,
		labels:    labels,
		k:         k,
		dim:       dim,
		createdAt: createdAt,
		graph:     g,
	}, nil
}

// NearestDistance returns the exact Euclidean distance from the embedding to
// its single nearest stored sample.
func (c *Classifier) NearestDistance(embedding []float32) float64 {
	nearest := c.nearest(embedding, 1)
	if len(nearest) == 0 {
		return math.Inf(1)
	}
	return nearest[0].distance
}

// Predict returns the label chosen by majority vote among the k nearest
// samples. Ties break to the lexicographically smallest tied label.
func (c *Classifier) Predict(embedding []float32) string {
	neighbors := c.nearest(embedding, c.k)

	votes := make(map[string]int, len(neighbors))
	for _, n := range neighbors {
		votes[c.labels[n.id]]++
	}

	best := ""
	bestVotes := 0
	for label, count := range votes {
		if count > bestVotes || (count == bestVotes && label < best) {
			best = label
			bestVotes = count
		}
	}
	return best
}

type neighbor struct {
	id       int64
	distance float64
}

// nearest returns the k nearest samples ordered by exact Euclidean distance.
// The graph search over-fetches and the result is re-ranked against the
// stored vectors, so graph approximation never changes the answer at the
// dataset sizes this tool handles.
func (c *Classifier) nearest(embedding []float32, k int) []neighbor {
	fetch := min(k*searchMultiplier, len(c.samples))
	nodes := c.graph.Search(embedding, fetch)

	neighbors := make([]neighbor, 0, len(nodes))
	for _, n := range nodes {
		neighbors = append(neighbors, neighbor{
			id:       n.Key,
			distance: euclideanDistance(embedding, c.samples[n.Key]),
		})
	}
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].distance != neighbors[j].distance {
			return neighbors[i].distance < neighbors[j].distance
		}
		return neighbors[i].id < neighbors[j].id
	})

	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors
}

// euclideanDistance computes the distance in float64 so threshold
// comparisons do not wobble with float32 rounding.
func euclideanDistance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Labels returns the sorted unique label set.
func (c *Classifier) Labels() []string {
	seen := make(map[string]bool, len(c.labels))
	unique := make([]string, 0, len(c.labels))
	for _, l := range c.labels {
		if !seen[l] {
			seen[l] = true
			unique = append(unique, l)
		}
	}
	sort.Strings(unique)
	return unique
}

// LabelCounts returns the number of stored samples per label.
func (c *Classifier) LabelCounts() map[string]int {
	counts := make(map[string]int, len(c.labels))
	for _, l := range c.labels {
		counts[l]++
	}
	return counts
}

// Dataset returns the stored samples and their labels. The returned slices
// are the classifier's own backing data and must not be modified.
func (c *Classifier) Dataset() ([][]float32, []string) {
	return c.samples, c.labels
}

// Len returns the number of stored samples.
func (c *Classifier) Len() int { return len(c.samples) }

// Dim returns the embedding dimension.
func (c *Classifier) Dim() int { return c.dim }

// K returns the neighbor count fixed at fit time.
func (c *Classifier) K() int { return c.k }

// CreatedAt returns the fit timestamp.
func (c *Classifier) CreatedAt() time.Time { return c.createdAt }
