package lang

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Caller identifies who is calling or texting which restaurant.
type Caller struct {
	Phone    string
	TenantID string
}

// LanguageDetector picks the language for a caller.
type LanguageDetector interface {
	DetectCaller(ctx context.Context, caller Caller) Language
	DetectText(text string) (Language, bool)
}

// PreferenceLookup returns the stored language preference for a caller, or "".
type PreferenceLookup interface {
	PreferredLanguage(ctx context.Context, tenantID, phone string) (string, error)
}

type PreferenceFunc func(ctx context.Context, tenantID, phone string) (string, error)

func (f PreferenceFunc) PreferredLanguage(ctx context.Context, tenantID, phone string) (string, error) {
	return f(ctx, tenantID, phone)
}

type prefixRule struct {
	prefix   string
	language Language
}

type Detector struct {
	preferences PreferenceLookup
	prefixes    []prefixRule
	fallback    Language
	text        *KeywordDetector
}

// NewDetector builds a detector from a prefix table such as {"+4122": "fr"}.
// Entries naming unsupported languages are ignored.
func NewDetector(preferences PreferenceLookup, prefixes map[string]string, fallback Language) *Detector {
	rules := make([]prefixRule, 0, len(prefixes))
	for prefix, code := range prefixes {
		l, ok := Parse(code)
		if !ok {
			log.Warn().Str("prefix", prefix).Str("language", code).Msg("ignoring unsupported caller prefix language")
			continue
		}
		rules = append(rules, prefixRule{prefix: NormalizePhone(prefix), language: l})
	}
	// longest prefix wins
	sort.Slice(rules, func(i, j int) bool {
		if len(rules[i].prefix) != len(rules[j].prefix) {
			return len(rules[i].prefix) > len(rules[j].prefix)
		}
		return rules[i].prefix < rules[j].prefix
	})

	if fallback == "" {
		fallback = German
	}

	return &Detector{
		preferences: preferences,
		prefixes:    rules,
		fallback:    fallback,
		text:        NewKeywordDetector(),
	}
}

// DetectCaller tries the stored preference, then the number prefix, then the default.
func (d *Detector) DetectCaller(ctx context.Context, caller Caller) Language {
	phone := NormalizePhone(caller.Phone)

	if d.preferences != nil && caller.TenantID != "" && phone != "" {
		pref, err := d.preferences.PreferredLanguage(ctx, caller.TenantID, phone)
		if err != nil {
			log.Warn().Err(err).Str("tenant_id", caller.TenantID).Msg("customer language lookup failed")
		} else if l, ok := Parse(pref); ok {
			return l
		}
	}

	if l, ok := d.ByPrefix(phone); ok {
		return l
	}
	return d.fallback
}

func (d *Detector) ByPrefix(phone string) (Language, bool) {
	for _, rule := range d.prefixes {
		if strings.HasPrefix(phone, rule.prefix) {
			return rule.language, true
		}
	}
	return "", false
}

func (d *Detector) DetectText(text string) (Language, bool) {
	return d.text.DetectText(text)
}

func (d *Detector) Default() Language {
	return d.fallback
}
