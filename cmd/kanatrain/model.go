package main

import (
	"fmt"

	"github.com/juruen/kanatrain/classifier"
	"github.com/juruen/kanatrain/classifier/forest"
	"github.com/juruen/kanatrain/classifier/mlp"
	"github.com/juruen/kanatrain/dataset"
)

const (
	modelForest  = "forest"
	modelNetwork = "net"
)

// loaded is a model read back from disk together with its concrete form.
type loaded struct {
	classifier.Classifier
	forest  *forest.Forest
	network *mlp.Network
}

func (c *Ctxt) modelPath(kind, path string) (string, error) {
	if path != "" {
		return path, nil
	}
	switch kind {
	case modelForest:
		return c.cfg.Forest.ModelPath, nil
	case modelNetwork:
		return c.cfg.Network.ModelPath, nil
	}
	return "", fmt.Errorf("unknown model %q, want %s or %s", kind, modelForest, modelNetwork)
}

// loadModel reads the model at path. When retrain is set a missing file
// is replaced by a freshly trained model, trained on synthetic data.
func (c *Ctxt) loadModel(kind, path string, payload dataset.Payload, retrain bool) (*loaded, error) {
	path, err := c.modelPath(kind, path)
	if err != nil {
		return nil, err
	}

	switch kind {
	case modelForest:
		load := forest.Load
		if retrain {
			load = func(path string) (*forest.Forest, error) {
				return forest.LoadOrTrain(path, c.retrainForest)
			}
		}
		f, err := load(path)
		if err != nil {
			return nil, err
		}
		return &loaded{Classifier: f, forest: f}, nil
	default:
		load := mlp.Load
		if retrain {
			load = func(path string) (*mlp.Network, error) {
				return mlp.LoadOrTrain(path, func() (*mlp.Network, error) {
					return c.retrainNetwork(payload)
				})
			}
		}
		n, err := load(path)
		if err != nil {
			return nil, err
		}
		return &loaded{Classifier: n, network: n}, nil
	}
}

func (c *Ctxt) retrainForest() (*forest.Forest, error) {
	warnColor.Fprintln(c.errOut, "Model not found. Training new model...")
	ex, err := c.synthetic(dataset.PayloadFeatures, c.cfg.FeaturesPerChar, c.cfg.Seed)
	if err != nil {
		return nil, err
	}
	f, err := forest.Train(c.ctx, ex.X, ex.Y, c.table.Len(), c.cfg.ForestConfig())
	if err != nil {
		return nil, err
	}
	f.Characters = c.table.Characters()
	return f, nil
}

func (c *Ctxt) retrainNetwork(payload dataset.Payload) (*mlp.Network, error) {
	warnColor.Fprintln(c.errOut, "Model not found. Training new model...")
	ex, err := c.synthetic(payload, c.cfg.FeaturesPerChar, c.cfg.Seed)
	if err != nil {
		return nil, err
	}
	n, _, err := mlp.Train(c.ctx, ex.X, ex.Y, c.table.Len(), c.cfg.NetworkConfig())
	return n, err
}

// payloadFor tells the input kind of a loaded model from its width.
func (c *Ctxt) payloadFor(m *loaded) dataset.Payload {
	if m.network != nil && m.NumFeatures() == c.cfg.InputSize*c.cfg.InputSize {
		return dataset.PayloadImage
	}
	return dataset.PayloadFeatures
}
