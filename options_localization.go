package sitelayout

import (
	"context"

	"github.com/moseybank/sitelayout/components"
	"github.com/moseybank/sitelayout/localization"
)

// WithDictionary sets the dictionary used for the language picker labels.
func WithDictionary(dict localization.Dictionary) Option {
	return func(_ context.Context, s *Service) {
		s.dictionary = dict
	}
}

// WithDictionaryFile loads the dictionary from a json, yaml or toml file.
func WithDictionaryFile(path string) Option {
	return func(ctx context.Context, s *Service) {
		dict, err := localization.Load(ctx, path)
		if err != nil {
			s.recordSetupError(err)
			return
		}
		s.dictionary = dict
	}
}

// WithBlockRenderer registers a content area renderer for typeName.
func WithBlockRenderer(typeName string, renderer components.BlockRenderer) Option {
	return func(_ context.Context, s *Service) {
		if s.factory == nil {
			s.factory = components.NewFactory()
		}
		s.factory.Register(typeName, renderer)
	}
}
