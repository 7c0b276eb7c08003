package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidStore is returned for input that yields no domain
var ErrInvalidStore = errors.New("invalid store url")

var (
	protocolPrefix = regexp.MustCompile(`(?i)^https?://`)
	unsafeChars    = regexp.MustCompile(`[^a-z0-9]`)
)

// StoreTarget holds the identifiers derived from the store URL given on the command line
type StoreTarget struct {
	Input          string `json:"input" bson:"input"`
	BaseURL        string `json:"base_url" bson:"base_url"`
	ReadableDomain string `json:"domain" bson:"domain"`
	SafeName       string `json:"safe_name" bson:"safe_name"`
	FromEmail      string `json:"from_email" bson:"from_email"`
}

// NormalizeDomain strips the protocol and a leading "www." and keeps the part before the first "/".
func NormalizeDomain(raw string) string {
	d := protocolPrefix.ReplaceAllString(strings.TrimSpace(raw), "")
	d = strings.TrimPrefix(d, "www.")
	if i := strings.Index(d, "/"); i >= 0 {
		d = d[:i]
	}
	return d
}

// SanitizeName lower-cases s and replaces everything outside [a-z0-9] with "_".
func SanitizeName(s string) string {
	return unsafeChars.ReplaceAllString(strings.ToLower(s), "_")
}

// NewStoreTarget derives the store identifiers from a raw domain or URL.
func NewStoreTarget(raw string) (StoreTarget, error) {
	domain := strings.ToLower(NormalizeDomain(raw))
	if domain == "" {
		return StoreTarget{}, fmt.Errorf("%w: %q has no domain", ErrInvalidStore, raw)
	}
	return StoreTarget{
		Input:          raw,
		BaseURL:        "https://" + domain,
		ReadableDomain: domain,
		SafeName:       SanitizeName(domain),
		FromEmail:      "marketing@" + domain,
	}, nil
}
