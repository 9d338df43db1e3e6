package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var embeddedLocales embed.FS

// Localizer resolves translation keys for a single locale
type Localizer interface {
	// T returns the translation for key, or key itself when no catalog has it
	T(key string) string

	// Locale returns the locale this localizer serves
	Locale() string
}

// Catalog is a flattened set of translations keyed by dotted paths
type Catalog map[string]string

// Bundle holds the catalogs of every supported locale
type Bundle struct {
	defaultLocale string
	catalogs      map[string]Catalog
	matcher       language.Matcher
	tags          []language.Tag
	mutex         sync.RWMutex
	logger        *zap.Logger
}

// NewBundle creates a bundle preloaded with the embedded catalogs
func NewBundle(defaultLocale string, logger *zap.Logger) (*Bundle, error) {
	if defaultLocale == "" {
		defaultLocale = "en"
	}

	b := &Bundle{
		defaultLocale: defaultLocale,
		catalogs:      make(map[string]Catalog),
		logger:        logger,
	}

	if err := b.LoadFS(embeddedLocales, "locales"); err != nil {
		return nil, err
	}
	if _, ok := b.catalogs[defaultLocale]; !ok {
		return nil, fmt.Errorf("no catalog for default locale %q", defaultLocale)
	}

	return b, nil
}

// LoadFS loads every *.yaml file under dir of fsys. The file name is the locale.
func (b *Bundle) LoadFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to read locales: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !isCatalogFile(entry.Name()) {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}
		if err := b.Load(localeFromFile(entry.Name()), data); err != nil {
			return err
		}
	}
	return nil
}

// LoadDir loads catalogs from a directory on disk, overriding embedded keys
func (b *Bundle) LoadDir(dir string) error {
	return b.LoadFS(os.DirFS(dir), ".")
}

// Load parses a YAML catalog and merges it into the locale's translations
func (b *Bundle) Load(locale string, data []byte) error {
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("failed to parse catalog %s: %w", locale, err)
	}

	flat := make(Catalog)
	flatten("", tree, flat)

	b.mutex.Lock()
	defer b.mutex.Unlock()

	catalog, ok := b.catalogs[locale]
	if !ok {
		catalog = make(Catalog, len(flat))
		b.catalogs[locale] = catalog
	}
	for k, v := range flat {
		catalog[k] = v
	}
	b.rebuildMatcher()

	if b.logger != nil {
		b.logger.Debug("Catalog loaded", zap.String("locale", locale), zap.Int("keys", len(flat)))
	}
	return nil
}

// rebuildMatcher must be called with the write lock held
func (b *Bundle) rebuildMatcher() {
	tags := []language.Tag{language.Make(b.defaultLocale)}
	for locale := range b.catalogs {
		if locale == b.defaultLocale {
			continue
		}
		tags = append(tags, language.Make(locale))
	}
	b.tags = tags
	b.matcher = language.NewMatcher(tags)
}

// Match picks the best supported locale for an Accept-Language header value
func (b *Bundle) Match(acceptLanguage string) string {
	if acceptLanguage == "" {
		return b.defaultLocale
	}

	b.mutex.RLock()
	defer b.mutex.RUnlock()

	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return b.defaultLocale
	}
	_, index, confidence := b.matcher.Match(prefs...)
	if confidence == language.No {
		return b.defaultLocale
	}
	base, _ := b.tags[index].Base()
	return base.String()
}

// Supported reports whether a catalog exists for locale
func (b *Bundle) Supported(locale string) bool {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	_, ok := b.catalogs[locale]
	return ok
}

// DefaultLocale returns the fallback locale
func (b *Bundle) DefaultLocale() string {
	return b.defaultLocale
}

// Localizer returns a localizer for locale, falling back to the default locale
func (b *Bundle) Localizer(locale string) Localizer {
	if !b.Supported(locale) {
		locale = b.defaultLocale
	}
	return &localizer{bundle: b, locale: locale}
}

func (b *Bundle) lookup(locale, key string) (string, bool) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	if msg, ok := b.catalogs[locale][key]; ok {
		return msg, true
	}
	if msg, ok := b.catalogs[b.defaultLocale][key]; ok {
		return msg, true
	}
	return "", false
}

type localizer struct {
	bundle *Bundle
	locale string
}

func (l *localizer) T(key string) string {
	if msg, ok := l.bundle.lookup(l.locale, key); ok {
		return msg
	}
	return key
}

func (l *localizer) Locale() string {
	return l.locale
}

func flatten(prefix string, node map[string]any, out Catalog) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case nil:
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

func isCatalogFile(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}

func localeFromFile(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
