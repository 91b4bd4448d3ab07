package dataset

import "errors"

var (
	ErrUnknownCharacter = errors.New("character not in alphabet")
	ErrNoPayload        = errors.New("sample has no usable payload")
	ErrFeatureLength    = errors.New("feature vector has wrong length")
	ErrMixedPayload     = errors.New("image and feature samples can't share a dataset")
)
