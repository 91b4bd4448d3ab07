// Package export writes the files the mobile app bundles: the trained
// model, its labels and an optional signed manifest.
package export

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"time"

	"github.com/juruen/kanatrain/alphabet"
	"github.com/juruen/kanatrain/classifier/forest"
	"github.com/juruen/kanatrain/classifier/mlp"
	"github.com/juruen/kanatrain/log"
	"github.com/juruen/kanatrain/util"
	"github.com/pkg/errors"
)

const (
	LabelsFile   = "japanese_character_labels.txt"
	ManifestFile = "manifest.jwt"

	TypeForest  = forest.ModelType
	TypeNetwork = "DenseNetwork"
)

// Bundle describes where and how to write an export.
type Bundle struct {
	Dir   string
	Table *alphabet.Table
	// SigningKey enables the manifest when not empty
	SigningKey []byte
	Now        func() time.Time
}

type Result struct {
	ModelPath    string
	LabelsPath   string
	ManifestPath string
	SHA256       string
}

func (b *Bundle) WriteForest(f *forest.Forest) (*Result, error) {
	labelled := *f
	if labelled.Characters == nil {
		labelled.Characters = b.Table.Characters()
	}
	var buf bytes.Buffer
	if err := labelled.WriteJSON(&buf); err != nil {
		return nil, errors.Wrap(err, "can't encode forest")
	}
	return b.write(forest.DefaultPath, TypeForest, buf.Bytes(), f.NumClasses(), f.NumFeatures())
}

func (b *Bundle) WriteNetwork(n *mlp.Network) (*Result, error) {
	data, err := n.Encode().MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "can't encode network")
	}
	return b.write(mlp.DefaultPath, TypeNetwork, data, n.NumClasses(), n.NumFeatures())
}

func (b *Bundle) write(name, modelType string, model []byte, classes, features int) (*Result, error) {
	if classes != b.Table.Len() {
		return nil, errors.Errorf("model has %d classes, alphabet has %d", classes, b.Table.Len())
	}

	sum := sha256.Sum256(model)
	res := &Result{
		ModelPath:  filepath.Join(b.Dir, name),
		LabelsPath: filepath.Join(b.Dir, LabelsFile),
		SHA256:     hex.EncodeToString(sum[:]),
	}

	if err := util.WriteFileAtomic(res.ModelPath, model); err != nil {
		return nil, err
	}

	var labels bytes.Buffer
	if err := b.Table.WriteLabels(&labels); err != nil {
		return nil, err
	}
	if err := util.WriteFileAtomic(res.LabelsPath, labels.Bytes()); err != nil {
		return nil, err
	}

	if len(b.SigningKey) > 0 {
		now := time.Now
		if b.Now != nil {
			now = b.Now
		}
		token, err := Sign(b.SigningKey, Manifest{
			ModelFile: name,
			ModelType: modelType,
			SHA256:    res.SHA256,
			Classes:   classes,
			Features:  features,
		}, now())
		if err != nil {
			return nil, err
		}
		res.ManifestPath = filepath.Join(b.Dir, ManifestFile)
		if err := util.WriteFileAtomic(res.ManifestPath, []byte(token)); err != nil {
			return nil, err
		}
	}

	log.Info.Printf("exported %s (%s) to %s", name, modelType, b.Dir)
	return res, nil
}
