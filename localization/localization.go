package localization

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/nicksnyder/go-i18n/v2/i18n/template"
	"github.com/pitabwire/util"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const (
	TitleMessageID        = "languagePicker.title"
	LocaleLabelsMessageID = "languagePicker.locales"
)

var ErrUnsupportedFormat = errors.New("unsupported dictionary format")

//go:embed dictionary.json
var defaultDictionary []byte

type contextKey string

func (c contextKey) String() string {
	return "sitelayout/localization/" + string(c)
}

const ctxKeyLanguage = contextKey("languageKey")

// ToContext adds language to the current supplied context.
func ToContext(ctx context.Context, lang []string) context.Context {
	return context.WithValue(ctx, ctxKeyLanguage, lang)
}

// FromContext extracts language from the supplied context if any exist.
func FromContext(ctx context.Context) []string {
	languages, ok := ctx.Value(ctxKeyLanguage).([]string)
	if !ok {
		return nil
	}

	return languages
}

// Dictionary is the static, locale keyed message document of the site.
type Dictionary interface {
	Locales() []string
	// Translate looks messageID up for locale only, without falling back to
	// another language.
	Translate(locale, messageID string) (string, bool)
	Title(locale string) (string, bool)
	LocaleLabel(current, locale string) (string, bool)
}

type dictionaryImpl struct {
	bundle *i18n.Bundle
	tags   map[string]language.Tag
}

// Default returns the dictionary shipped with the module.
func Default() (Dictionary, error) {
	return Parse("dictionary.json", defaultDictionary)
}

// Load reads a dictionary file. The format follows the file extension:
// .json, .yaml, .yml or .toml. An empty path loads the default dictionary.
func Load(ctx context.Context, path string) (Dictionary, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}

	dict, err := Parse(path, data)
	if err != nil {
		return nil, err
	}

	util.Log(ctx).WithField("path", path).
		WithField("locales", dict.Locales()).
		Info("dictionary loaded")
	return dict, nil
}

// Parse decodes a dictionary document named name.
func Parse(name string, data []byte) (Dictionary, error) {
	doc := map[string]any{}

	var err error
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		decoder := json.NewDecoder(bytes.NewReader(data))
		err = decoder.Decode(&doc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	case ".toml":
		err = toml.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	if err != nil {
		return nil, fmt.Errorf("decode dictionary %s: %w", name, err)
	}

	return newDictionary(doc)
}

func newDictionary(doc map[string]any) (*dictionaryImpl, error) {
	d := &dictionaryImpl{
		bundle: i18n.NewBundle(language.English),
		tags:   map[string]language.Tag{},
	}

	for locale, entries := range doc {
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("dictionary locale %q: %w", locale, err)
		}

		fields, ok := entries.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("dictionary locale %q is not an object", locale)
		}

		var messages []*i18n.Message
		flatten("", fields, func(id, text string) {
			messages = append(messages, &i18n.Message{ID: id, Other: text})
		})

		if err = d.bundle.AddMessages(tag, messages...); err != nil {
			return nil, fmt.Errorf("dictionary locale %q: %w", locale, err)
		}
		d.tags[locale] = tag
	}

	return d, nil
}

func flatten(prefix string, fields map[string]any, emit func(id, text string)) {
	for key, value := range fields {
		id := key
		if prefix != "" {
			id = prefix + "." + key
		}

		switch v := value.(type) {
		case map[string]any:
			flatten(id, v, emit)
		case string:
			emit(id, v)
		case nil:
		default:
			emit(id, fmt.Sprint(v))
		}
	}
}

func (d *dictionaryImpl) Locales() []string {
	locales := make([]string, 0, len(d.tags))
	for locale := range d.tags {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	return locales
}

func (d *dictionaryImpl) Translate(locale, messageID string) (string, bool) {
	want, ok := d.tags[locale]
	if !ok {
		return "", false
	}

	localizer := i18n.NewLocalizer(d.bundle, want.String())
	// Dictionary text is shown as written, braces included.
	text, tag, err := localizer.LocalizeWithTag(&i18n.LocalizeConfig{
		MessageID:      messageID,
		TemplateParser: template.IdentityParser{},
	})
	if err != nil || tag != want {
		return "", false
	}

	return text, true
}

func (d *dictionaryImpl) Title(locale string) (string, bool) {
	return d.Translate(locale, TitleMessageID)
}

func (d *dictionaryImpl) LocaleLabel(current, locale string) (string, bool) {
	return d.Translate(current, LocaleLabelsMessageID+"."+locale)
}

// ExtractLanguageFromHTTPRequest lists the locales a request asks for, the
// locale query parameter first, then the Accept-Language entries by weight.
func ExtractLanguageFromHTTPRequest(req *http.Request) []string {
	var languages []string
	if locale := strings.TrimSpace(req.URL.Query().Get("locale")); locale != "" {
		languages = append(languages, locale)
	}

	return append(languages, ExtractLanguageFromHTTPHeader(req.Header)...)
}

func ExtractLanguageFromHTTPHeader(header http.Header) []string {
	acceptLanguageHeader := header.Get("Accept-Language")
	if acceptLanguageHeader == "" {
		return nil
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguageHeader)
	if err != nil {
		return nil
	}

	languages := make([]string, 0, len(tags))
	for _, tag := range tags {
		languages = append(languages, tag.String())
	}
	return languages
}

// PreferredLocale returns the first language carried in ctx, or fallback.
func PreferredLocale(ctx context.Context, fallback string) string {
	for _, lang := range FromContext(ctx) {
		if lang = strings.TrimSpace(lang); lang != "" {
			return lang
		}
	}
	return fallback
}
