package forest

import (
	"bytes"
	"os"

	"github.com/juruen/kanatrain/log"
	"github.com/juruen/kanatrain/util"
	"github.com/pkg/errors"
)

const DefaultPath = "simple_japanese_model.json"

func Save(path string, f *Forest) error {
	var buf bytes.Buffer
	if err := f.WriteJSON(&buf); err != nil {
		return errors.Wrap(err, "can't encode forest")
	}
	if err := util.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return err
	}
	log.Info.Printf("forest saved to %s (%d trees)", path, len(f.Trees))
	return nil
}

func Load(path string) (*Forest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	f, err := ReadJSON(file)
	if err != nil {
		return nil, errors.Wrapf(err, "can't load forest %s", path)
	}
	return f, nil
}

// LoadOrTrain loads the forest at path. When the file does not exist it
// trains a new one, saves it and loads it back, so callers always work
// with what is on disk.
func LoadOrTrain(path string, train func() (*Forest, error)) (*Forest, error) {
	f, err := Load(path)
	if err == nil {
		return f, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	log.Warning.Printf("model %s not found, training first", path)
	f, err = train()
	if err != nil {
		return nil, errors.Wrap(err, "training failed")
	}
	if err := Save(path, f); err != nil {
		return nil, err
	}
	return Load(path)
}
