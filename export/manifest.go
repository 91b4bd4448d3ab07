package export

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

const issuer = "kanatrain"

var (
	ErrBadSignature   = errors.New("manifest signature is invalid")
	ErrDigestMismatch = errors.New("model file does not match manifest")
)

type Manifest struct {
	ModelFile string `json:"model_file"`
	ModelType string `json:"model_type"`
	SHA256    string `json:"sha256"`
	Classes   int    `json:"classes"`
	Features  int    `json:"features"`
	jwt.StandardClaims
}

// Sign returns m as an HS256 token with a fresh id.
func Sign(key []byte, m Manifest, now time.Time) (string, error) {
	m.StandardClaims = jwt.StandardClaims{
		Id:       uuid.New().String(),
		Issuer:   issuer,
		IssuedAt: now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, m)
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("can't sign manifest: %w", err)
	}
	return signed, nil
}

// Verify checks the token signature and returns its manifest.
func Verify(key []byte, token string) (*Manifest, error) {
	m := &Manifest{}
	_, err := jwt.ParseWithClaims(token, m, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSignature, err)
	}
	return m, nil
}

// VerifyFile checks that the model at path is the one the manifest names.
func (m *Manifest) VerifyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	sum := sha256.Sum256(data)
	if hex.EncodeToString(sum[:]) != m.SHA256 {
		return ErrDigestMismatch
	}
	return nil
}
