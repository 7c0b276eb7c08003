package localize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/raushankrgupta/storedeck/models"
	"go.uber.org/zap"
)

// ErrShapeMismatch is returned when a translated bundle does not carry exactly
// the keys of the source bundle.
var ErrShapeMismatch = errors.New("translated content does not match source structure")

// Localizer translates a content bundle into a store's language and tone
type Localizer interface {
	Localize(ctx context.Context, bundle models.ContentBundle, language, toneSample string) (models.ContentBundle, error)
}

// Apply runs l and falls back to the untouched source bundle when l is nil,
// the language is unknown, or translation fails. The boolean reports whether
// the returned bundle is a translation.
func Apply(ctx context.Context, l Localizer, bundle models.ContentBundle, language, toneSample string, logger *zap.Logger) (models.ContentBundle, bool) {
	if l == nil {
		return bundle, false
	}
	if language == "" || language == models.LanguageNotFound {
		logger.Info("store language unknown, keeping source content")
		return bundle, false
	}
	translated, err := l.Localize(ctx, bundle, language, toneSample)
	if err != nil {
		logger.Warn("localization failed, falling back to source content", zap.String("language", language), zap.Error(err))
		return bundle, false
	}
	return translated, true
}

// DecodeBundle parses a translated bundle and checks it has the same nested
// key set as reference, with string leaves only.
func DecodeBundle(raw []byte, reference models.ContentBundle) (models.ContentBundle, error) {
	raw = bytes.TrimSpace(stripFence(raw))

	var got any
	if err := json.Unmarshal(raw, &got); err != nil {
		return models.ContentBundle{}, fmt.Errorf("parse translation: %w", err)
	}
	refJSON, err := json.Marshal(reference)
	if err != nil {
		return models.ContentBundle{}, err
	}
	var want any
	if err := json.Unmarshal(refJSON, &want); err != nil {
		return models.ContentBundle{}, err
	}
	if !sameShape(want, got) {
		return models.ContentBundle{}, ErrShapeMismatch
	}

	var out models.ContentBundle
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return models.ContentBundle{}, fmt.Errorf("decode translation: %w", err)
	}
	return out, nil
}

func sameShape(want, got any) bool {
	switch w := want.(type) {
	case map[string]any:
		g, ok := got.(map[string]any)
		if !ok || len(g) != len(w) {
			return false
		}
		for k, wv := range w {
			gv, ok := g[k]
			if !ok || !sameShape(wv, gv) {
				return false
			}
		}
		return true
	case string:
		_, ok := got.(string)
		return ok
	default:
		return reflect.DeepEqual(want, got)
	}
}

// stripFence removes a surrounding ```json ... ``` block if present.
func stripFence(raw []byte) []byte {
	s := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(s, "```") {
		return raw
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return []byte(s)
}
