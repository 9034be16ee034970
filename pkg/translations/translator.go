package translations

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNotConfigured is returned when the translator is used before Configure
	ErrNotConfigured = errors.New("translator is not configured")
	// ErrAlreadyConfigured is returned by a second Configure call
	ErrAlreadyConfigured = errors.New("translator is already configured")
	// ErrInvalidLang is returned for a malformed locale tag
	ErrInvalidLang = errors.New("invalid language")
)

// Catalog maps category -> message -> translation
type Catalog map[string]map[string]string

var (
	defaultLang string
	currentLang string
	catalogs    = make(map[string]Catalog)
	// mu protects the translator state
	mu sync.RWMutex

	log = logrus.New()
)

// SetLogger replaces the logger used for catalog loading
func SetLogger(l *logrus.Logger) {
	if l == nil {
		l = logrus.New()
	}
	mu.Lock()
	log = l
	mu.Unlock()
}

// Configure sets the default plugin language, e.g. "ru_RU"
func Configure(lang string) error {
	if err := ValidateLang(lang); err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	if defaultLang != "" {
		return ErrAlreadyConfigured
	}

	defaultLang = lang
	currentLang = lang
	return nil
}

// ValidateLang checks that lang is a locale tag in ll_CC form
func ValidateLang(lang string) error {
	parts := strings.Split(lang, "_")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return fmt.Errorf("%w: %q (expected form ll_CC, e.g. en_US)", ErrInvalidLang, lang)
	}
	if parts[0] != strings.ToLower(parts[0]) || parts[1] != strings.ToUpper(parts[1]) {
		return fmt.Errorf("%w: %q (expected form ll_CC, e.g. en_US)", ErrInvalidLang, lang)
	}

	if _, err := language.Parse(toBCP47(lang)); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidLang, lang, err)
	}
	return nil
}

// DefaultLang returns the configured default language
func DefaultLang() string {
	mu.RLock()
	defer mu.RUnlock()

	return defaultLang
}

// Lang returns the language translations are currently resolved into
func Lang() string {
	mu.RLock()
	defer mu.RUnlock()

	return currentLang
}

// SetLang switches the current language
func SetLang(lang string) error {
	if err := ValidateLang(lang); err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	if defaultLang == "" {
		return ErrNotConfigured
	}

	currentLang = lang
	return nil
}

// Languages returns the loaded catalog locales, sorted
func Languages() []string {
	mu.RLock()
	defer mu.RUnlock()

	langs := make([]string, 0, len(catalogs))
	for lang := range catalogs {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// AddCatalog merges a catalog for lang into the loaded translations
func AddCatalog(lang string, catalog Catalog) error {
	if err := ValidateLang(lang); err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	merge(lang, catalog)
	return nil
}

func merge(lang string, catalog Catalog) {
	existing, ok := catalogs[lang]
	if !ok {
		existing = make(Catalog)
		catalogs[lang] = existing
	}
	for category, messages := range catalog {
		if existing[category] == nil {
			existing[category] = make(map[string]string, len(messages))
		}
		for message, translation := range messages {
			existing[category][message] = translation
		}
	}
}

// LoadDir loads every <locale>.yaml catalog in dir, replacing loaded catalogs
func LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read translations directory: %w", err)
	}

	loaded := make(map[string]Catalog)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		lang := strings.TrimSuffix(entry.Name(), ext)
		if err := ValidateLang(lang); err != nil {
			currentLogger().Warnf("Skipping translation file %s: %v", entry.Name(), err)
			continue
		}

		catalog, err := loadCatalog(filepath.Join(dir, entry.Name()))
		if err != nil {
			return err
		}
		loaded[lang] = catalog
	}

	mu.Lock()
	catalogs = make(map[string]Catalog)
	for lang, catalog := range loaded {
		merge(lang, catalog)
	}
	mu.Unlock()

	currentLogger().Debugf("Loaded %d translation catalogs from %s", len(loaded), dir)
	return nil
}

func loadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", filepath.Base(path), err)
	}
	if catalog == nil {
		catalog = make(Catalog)
	}
	return catalog, nil
}

// Get translates message of category into the current language.
// The message itself is returned when no translation exists.
func Get(category, message string) string {
	mu.RLock()
	defer mu.RUnlock()

	return lookup(currentLang, category, message)
}

// GetWithParams translates message and substitutes {name} placeholders
func GetWithParams(category, message string, params map[string]string) string {
	translated := Get(category, message)
	if len(params) == 0 {
		return translated
	}

	pairs := make([]string, 0, len(params)*2)
	for name, value := range params {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(translated)
}

// lookup resolves a translation; caller holds mu
func lookup(lang, category, message string) string {
	if lang == "" {
		return message
	}

	if translated, ok := catalogs[lang][category][message]; ok && translated != "" {
		return translated
	}

	if fallback := closest(lang); fallback != "" && fallback != lang {
		if translated, ok := catalogs[fallback][category][message]; ok && translated != "" {
			return translated
		}
	}

	return message
}

// closest returns the loaded locale best matching lang, or ""
func closest(lang string) string {
	if len(catalogs) == 0 {
		return ""
	}

	langs := make([]string, 0, len(catalogs))
	for l := range catalogs {
		langs = append(langs, l)
	}
	sort.Strings(langs)

	tags := make([]language.Tag, len(langs))
	for i, l := range langs {
		tags[i] = language.Make(toBCP47(l))
	}

	desired, err := language.Parse(toBCP47(lang))
	if err != nil {
		return ""
	}

	_, index, confidence := language.NewMatcher(tags).Match(desired)
	if confidence == language.No {
		return ""
	}
	return langs[index]
}

// Reset clears all translator state
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	defaultLang = ""
	currentLang = ""
	catalogs = make(map[string]Catalog)
}

func currentLogger() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func toBCP47(lang string) string {
	return strings.ReplaceAll(lang, "_", "-")
}
