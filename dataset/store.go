package dataset

import (
	"bytes"
	"encoding/json"
	"os"
	"time"

	"github.com/juruen/kanatrain/log"
	"github.com/juruen/kanatrain/util"
	"github.com/pkg/errors"
)

// Load reads a dataset file. A missing file is not an error: it yields
// an empty dataset.
func Load(path string) (*Dataset, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Trace.Printf("no dataset at %s, starting empty", path)
		return New(), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "can't read dataset %s", path)
	}

	ds := New()
	if err := json.Unmarshal(b, ds); err != nil {
		return nil, errors.Wrapf(err, "can't parse dataset %s", path)
	}
	if ds.Data == nil {
		ds.Data = []Sample{}
	}
	log.Trace.Printf("loaded %d samples from %s", len(ds.Data), path)
	return ds, nil
}

// Save recomputes the metadata and writes the dataset as indented UTF-8
// JSON. Non-ASCII characters are written literally.
func Save(path string, ds *Dataset, source string) error {
	return save(path, ds, source, time.Now())
}

func save(path string, ds *Dataset, source string, now time.Time) error {
	if ds.Data == nil {
		ds.Data = []Sample{}
	}
	ds.RecomputeMetadata(source, now)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ds); err != nil {
		return errors.Wrap(err, "can't encode dataset")
	}

	if err := util.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return err
	}

	log.Info.Printf("Training data saved to %s", path)
	log.Info.Printf("Total samples: %d", ds.Metadata.TotalSamples)
	log.Info.Printf("Characters: %d", len(ds.Metadata.Characters))
	return nil
}

// Merge loads the dataset at path, appends the new samples and saves
// the result back to the same path. Samples of a payload kind other than
// the one already stored are refused.
func Merge(path string, samples []Sample, source string) (*Dataset, error) {
	ds, err := Load(path)
	if err != nil {
		return nil, err
	}
	for _, p := range payloadsOf(samples) {
		if err := ds.CheckPayload(p); err != nil {
			return nil, errors.Wrapf(err, "can't merge into %s", path)
		}
	}
	ds.Append(samples...)
	if err := Save(path, ds, source); err != nil {
		return nil, err
	}
	return ds, nil
}

func payloadsOf(samples []Sample) []Payload {
	var kinds []Payload
	d := Dataset{Data: samples}
	images, features := d.PayloadCounts()
	if images > 0 {
		kinds = append(kinds, PayloadImage)
	}
	if features > 0 {
		kinds = append(kinds, PayloadFeatures)
	}
	return kinds
}
