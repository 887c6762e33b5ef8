// Package config defines the closed set of parser/walker options
// (spec.md §4.6), populated through functional options in the teacher's
// ParserOption style (nihei9-vartan's driver.MakeAST/driver.MakeCST).
package config

import "github.com/nihei9/star/charclass"

// Config is the closed set of recognized options (spec.md §4.6).
type Config struct {
	// EncodingMode selects which of the three character classes (and
	// therefore which parser instantiation) is used.
	EncodingMode charclass.Mode

	// BOMDetection, when true, strips a leading UTF-8/UTF-16LE/UTF-16BE
	// BOM before parsing begins.
	BOMDetection bool

	// DecomposeStrings, when true, causes ParseWith to run the decomposer
	// over a mutabletree.Tree mirror after parsing and hand that mirror's
	// frozen view back instead of the raw immutable tree.
	DecomposeStrings bool

	// PreserveComments, when true, causes the walker to emit `comment`
	// events; when false, comments are discarded before the tree is
	// walked (spec.md §4.6).
	PreserveComments bool

	// StreamName is passed through to the walker's start_stream event.
	// Resolves spec.md §9 Open Question (a): the Python origin allowed a
	// stream label; this exposes the same thing as an option instead of
	// hard-coding it to empty (SPEC_FULL.md §5.4). The zero value
	// preserves the original behavior.
	StreamName string
}

// Default returns the default Config: Unicode encoding, BOM detection and
// decomposition off, comments discarded.
func Default() Config {
	return Config{EncodingMode: charclass.Unicode}
}

// Option mutates a Config under construction.
type Option func(*Config)

// New builds a Config from the given options, starting from Default().
func New(opts ...Option) Config {
	c := Default()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithEncoding selects the character class / parser instantiation.
func WithEncoding(mode charclass.Mode) Option {
	return func(c *Config) { c.EncodingMode = mode }
}

// WithBOMDetection toggles BOM stripping.
func WithBOMDetection(enabled bool) Option {
	return func(c *Config) { c.BOMDetection = enabled }
}

// WithDecomposeStrings toggles the post-parse string decomposition pass.
func WithDecomposeStrings(enabled bool) Option {
	return func(c *Config) { c.DecomposeStrings = enabled }
}

// WithPreserveComments toggles comment events.
func WithPreserveComments(enabled bool) Option {
	return func(c *Config) { c.PreserveComments = enabled }
}

// WithStreamName sets the label start_stream events carry.
func WithStreamName(name string) Option {
	return func(c *Config) { c.StreamName = name }
}
