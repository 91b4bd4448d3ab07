package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/juruen/kanatrain/export"
	"github.com/juruen/kanatrain/util"
	"github.com/pkg/errors"
)

func exportCmd() *Cmd {
	return &Cmd{
		Name: "export",
		Help: "write a model bundle with labels and an optional signed manifest",
		Func: func(c *Ctxt, args []string) error {
			flagSet := c.flagSet("export")
			kind := flagSet.StringP("model", "m", modelForest, "model kind: forest or net")
			path := flagSet.String("path", "", "model file (default from config)")
			out := flagSet.StringP("out", "o", c.cfg.OutputDir, "output directory")
			sign := flagSet.Bool("sign", c.cfg.SigningKey != "", "write a signed manifest")
			verify := flagSet.String("verify", "", "verify a manifest token file instead of exporting")
			if err := flagSet.Parse(args); err != nil {
				return err
			}

			if *verify != "" {
				return verifyManifest(c, *verify)
			}

			if *sign && c.cfg.SigningKey == "" {
				return errors.New("signing requested but no signing key is configured")
			}
			if err := os.MkdirAll(*out, 0755); err != nil {
				return errors.Wrap(err, "can't create output directory")
			}

			model, err := c.loadModel(*kind, *path, 0, false)
			if err != nil {
				return err
			}

			bundle := &export.Bundle{Dir: *out, Table: c.table, Now: time.Now}
			if *sign {
				bundle.SigningKey = []byte(c.cfg.SigningKey)
			}

			var res *export.Result
			if model.forest != nil {
				res, err = bundle.WriteForest(model.forest)
			} else {
				res, err = bundle.WriteNetwork(model.network)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(c.out, "model:    %s\n", res.ModelPath)
			fmt.Fprintf(c.out, "labels:   %s\n", res.LabelsPath)
			fmt.Fprintf(c.out, "sha256:   %s\n", res.SHA256)
			if res.ManifestPath != "" {
				fmt.Fprintf(c.out, "manifest: %s\n", res.ManifestPath)
			}
			successColor.Fprintln(c.out, "Model exported")
			return nil
		},
	}
}

func verifyManifest(c *Ctxt, tokenPath string) error {
	if c.cfg.SigningKey == "" {
		return errors.New("no signing key is configured")
	}
	if !util.FileExists(tokenPath) {
		return errors.Errorf("manifest %s not found", tokenPath)
	}
	raw, err := os.ReadFile(tokenPath)
	if err != nil {
		return err
	}

	m, err := export.Verify([]byte(c.cfg.SigningKey), strings.TrimSpace(string(raw)))
	if err != nil {
		return err
	}
	modelPath := filepath.Join(filepath.Dir(tokenPath), m.ModelFile)
	if err := m.VerifyFile(modelPath); err != nil {
		return err
	}
	okColor.Fprintf(c.out, "%s (%s, %d classes) matches its manifest\n", modelPath, m.ModelType, m.Classes)
	return nil
}
