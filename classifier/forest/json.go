package forest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const ModelType = "RandomForestClassifier"

var ErrBadModel = errors.New("malformed forest export")

// Export is the JSON document consumed by the mobile app. The summary
// fields mirror the scikit-learn export, Nodes carries the topology.
type Export struct {
	ModelType          string         `json:"model_type"`
	NEstimators        int            `json:"n_estimators"`
	MaxDepth           *int           `json:"max_depth"`
	FeatureImportances []float64      `json:"feature_importances"`
	Classes            []int          `json:"classes"`
	NFeatures          int            `json:"n_features"`
	Trees              []ExportTree   `json:"trees"`
	Characters         []string       `json:"characters"`
	CharacterToIndex   map[string]int `json:"character_to_index"`
}

type ExportTree struct {
	TreeID             int          `json:"tree_id"`
	FeatureImportances []float64    `json:"feature_importances"`
	MaxDepth           int          `json:"max_depth"`
	NLeaves            int          `json:"n_leaves"`
	Nodes              []ExportNode `json:"nodes"`
}

type ExportNode struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Samples   int       `json:"samples"`
	Impurity  float64   `json:"impurity"`
	Value     []float64 `json:"value,omitempty"`
}

func (f *Forest) Export() *Export {
	e := &Export{
		ModelType:          ModelType,
		NEstimators:        f.NEstimators,
		FeatureImportances: f.Importances,
		Classes:            make([]int, f.NClasses),
		NFeatures:          f.NFeatures,
		Trees:              make([]ExportTree, len(f.Trees)),
		Characters:         f.Characters,
		CharacterToIndex:   make(map[string]int, len(f.Characters)),
	}
	if e.Characters == nil {
		e.Characters = []string{}
	}
	if f.MaxDepth > 0 {
		d := f.MaxDepth
		e.MaxDepth = &d
	}
	for i := range e.Classes {
		e.Classes[i] = i
	}
	for i, ch := range f.Characters {
		e.CharacterToIndex[ch] = i
	}

	for i, t := range f.Trees {
		nodes := make([]ExportNode, len(t.Nodes))
		for j, n := range t.Nodes {
			nodes[j] = ExportNode{
				Feature:   n.Feature,
				Threshold: n.Threshold,
				Left:      n.Left,
				Right:     n.Right,
				Samples:   n.Samples,
				Impurity:  n.Impurity,
				Value:     n.Value,
			}
		}
		e.Trees[i] = ExportTree{
			TreeID:             i,
			FeatureImportances: t.Importances,
			MaxDepth:           t.Depth(),
			NLeaves:            t.Leaves(),
			Nodes:              nodes,
		}
	}
	return e
}

// Forest rebuilds the ensemble, checking that every tree is well formed.
func (e *Export) Forest() (*Forest, error) {
	if e.ModelType != ModelType {
		return nil, fmt.Errorf("%w: model_type %q", ErrBadModel, e.ModelType)
	}
	if len(e.Trees) == 0 {
		return nil, fmt.Errorf("%w: no trees", ErrBadModel)
	}

	f := &Forest{
		NEstimators: e.NEstimators,
		NClasses:    len(e.Classes),
		NFeatures:   e.NFeatures,
		Trees:       make([]*Tree, len(e.Trees)),
		Importances: e.FeatureImportances,
		Characters:  e.Characters,
	}
	if e.MaxDepth != nil {
		f.MaxDepth = *e.MaxDepth
	}

	for i, et := range e.Trees {
		t := &Tree{Nodes: make([]Node, len(et.Nodes)), Importances: et.FeatureImportances}
		for j, n := range et.Nodes {
			if err := e.checkNode(j, n, len(et.Nodes), f.NClasses); err != nil {
				return nil, fmt.Errorf("%w: tree %d node %d: %v", ErrBadModel, i, j, err)
			}
			t.Nodes[j] = Node{
				Feature:   n.Feature,
				Threshold: n.Threshold,
				Left:      n.Left,
				Right:     n.Right,
				Samples:   n.Samples,
				Impurity:  n.Impurity,
				Value:     n.Value,
			}
		}
		if len(t.Nodes) == 0 {
			return nil, fmt.Errorf("%w: tree %d is empty", ErrBadModel, i)
		}
		f.Trees[i] = t
	}
	return f, nil
}

// checkNode only allows forward child references, so walking a tree
// always terminates.
func (e *Export) checkNode(pos int, n ExportNode, size, classes int) error {
	if n.Feature == leaf {
		if len(n.Value) != classes {
			return fmt.Errorf("leaf has %d values, want %d", len(n.Value), classes)
		}
		return nil
	}
	if n.Feature < 0 || n.Feature >= e.NFeatures {
		return fmt.Errorf("feature %d out of range", n.Feature)
	}
	if n.Left <= pos || n.Left >= size || n.Right <= pos || n.Right >= size {
		return fmt.Errorf("child out of range")
	}
	return nil
}

// WriteJSON writes the export indented, with characters kept literal.
func (f *Forest) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(f.Export())
}

func ReadJSON(r io.Reader) (*Forest, error) {
	var e Export
	if err := json.NewDecoder(r).Decode(&e); err != nil {
		return nil, err
	}
	return e.Forest()
}
