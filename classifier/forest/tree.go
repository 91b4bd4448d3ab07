package forest

import (
	"math"
	"math/rand"
	"sort"
)

const leaf = -1

// Node is one entry of a tree in pre-order. Leaves have Feature == -1 and
// carry the class distribution of the samples that reached them.
type Node struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Samples   int
	Impurity  float64
	Value     []float64
}

func (n *Node) IsLeaf() bool {
	return n.Feature == leaf
}

type Tree struct {
	Nodes       []Node
	Importances []float64
}

// Predict walks x down to a leaf and returns its class distribution.
func (t *Tree) Predict(x []float64) []float64 {
	i := 0
	for {
		n := &t.Nodes[i]
		if n.IsLeaf() {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// Depth is the longest root to leaf path, a lone root has depth 0.
func (t *Tree) Depth() int {
	if len(t.Nodes) == 0 {
		return 0
	}
	var walk func(i, d int) int
	walk = func(i, d int) int {
		n := &t.Nodes[i]
		if n.IsLeaf() {
			return d
		}
		l, r := walk(n.Left, d+1), walk(n.Right, d+1)
		if l > r {
			return l
		}
		return r
	}
	return walk(0, 0)
}

func (t *Tree) Leaves() int {
	count := 0
	for i := range t.Nodes {
		if t.Nodes[i].IsLeaf() {
			count++
		}
	}
	return count
}

// importances derives normalized impurity decrease per feature.
func (t *Tree) importances(numFeatures int) []float64 {
	imp := make([]float64, numFeatures)
	for i := range t.Nodes {
		n := &t.Nodes[i]
		if n.IsLeaf() {
			continue
		}
		l, r := &t.Nodes[n.Left], &t.Nodes[n.Right]
		imp[n.Feature] += float64(n.Samples)*n.Impurity -
			float64(l.Samples)*l.Impurity -
			float64(r.Samples)*r.Impurity
	}
	normalize(imp)
	return imp
}

// builder grows one CART tree with gini impurity.
type builder struct {
	x           [][]float64
	y           []int
	numClasses  int
	maxDepth    int
	minSplit    int
	maxFeatures int
	rnd         *rand.Rand
	nodes       []Node
}

func (b *builder) build(idx []int) *Tree {
	b.nodes = nil
	b.grow(idx, 0)
	t := &Tree{Nodes: b.nodes}
	t.Importances = t.importances(len(b.x[0]))
	return t
}

func (b *builder) grow(idx []int, depth int) int {
	counts := b.counts(idx)
	impurity := gini(counts, len(idx))

	pos := len(b.nodes)
	b.nodes = append(b.nodes, Node{
		Feature:  leaf,
		Left:     leaf,
		Right:    leaf,
		Samples:  len(idx),
		Impurity: impurity,
	})

	if depth >= b.maxDepth || len(idx) < b.minSplit || impurity == 0 {
		b.nodes[pos].Value = distribution(counts, len(idx))
		return pos
	}

	feature, threshold, ok := b.split(idx)
	if !ok {
		b.nodes[pos].Value = distribution(counts, len(idx))
		return pos
	}

	var left, right []int
	for _, i := range idx {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	n := &b.nodes[pos]
	n.Feature = feature
	n.Threshold = threshold
	n.Left = l
	n.Right = r
	return pos
}

// split finds the best threshold over a random subset of features.
func (b *builder) split(idx []int) (int, float64, bool) {
	numFeatures := len(b.x[0])
	candidates := b.rnd.Perm(numFeatures)[:b.maxFeatures]

	bestFeature, bestThreshold := -1, 0.0
	bestImpurity := math.Inf(1)

	sorted := make([]int, len(idx))
	left := make([]int, b.numClasses)
	right := make([]int, b.numClasses)
	total := float64(len(idx))

	for _, f := range candidates {
		copy(sorted, idx)
		sort.SliceStable(sorted, func(i, j int) bool {
			return b.x[sorted[i]][f] < b.x[sorted[j]][f]
		})

		for c := range left {
			left[c] = 0
			right[c] = 0
		}
		for _, i := range sorted {
			right[b.y[i]]++
		}

		for k := 0; k < len(sorted)-1; k++ {
			c := b.y[sorted[k]]
			left[c]++
			right[c]--

			v, next := b.x[sorted[k]][f], b.x[sorted[k+1]][f]
			if v == next {
				continue
			}

			nl, nr := k+1, len(sorted)-k-1
			imp := (float64(nl)*gini(left, nl) + float64(nr)*gini(right, nr)) / total
			if imp < bestImpurity {
				bestImpurity = imp
				bestFeature = f
				bestThreshold = v + (next-v)/2
				if bestThreshold == next {
					bestThreshold = v
				}
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

func (b *builder) counts(idx []int) []int {
	counts := make([]int, b.numClasses)
	for _, i := range idx {
		counts[b.y[i]]++
	}
	return counts
}

func gini(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		sum += p * p
	}
	return 1 - sum
}

func distribution(counts []int, n int) []float64 {
	d := make([]float64, len(counts))
	if n == 0 {
		return d
	}
	for i, c := range counts {
		d[i] = float64(c) / float64(n)
	}
	return d
}

func normalize(v []float64) {
	total := 0.0
	for _, x := range v {
		total += x
	}
	if total <= 0 {
		return
	}
	for i := range v {
		v[i] /= total
	}
}
