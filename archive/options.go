package archive

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/arloliu/nierarc/hashname"
	"github.com/arloliu/nierarc/internal/options"
	"github.com/arloliu/nierarc/xmlbridge"
)

// Config holds the settings of one extraction.
type Config struct {
	logger      *slog.Logger
	manifest    bool
	table       *hashname.Table
	annotations bool
	depth       int
	source      string
}

// Option configures an extraction.
type Option = options.Option[*Config]

// NewConfig applies opts over the defaults: no logging, no manifest, the default name
// table and depth 0.
func NewConfig(opts ...Option) (*Config, error) {
	return options.Build(func() *Config {
		return &Config{
			logger: slog.New(slog.DiscardHandler),
			table:  hashname.Default(),
		}
	}, opts...)
}

// Logger returns the logger entry failures are reported to.
func (c *Config) Logger() *slog.Logger { return c.logger }

// Manifest reports whether an extraction manifest is written.
func (c *Config) Manifest() bool { return c.manifest }

// Source returns the file name of the container, used to fill manifests.
func (c *Config) Source() string { return c.source }

// Depth returns the nesting depth of the container being extracted.
func (c *Config) Depth() int { return c.depth }

// XMLOptions returns the text bridge options matching this configuration.
func (c *Config) XMLOptions() []xmlbridge.Option {
	opts := []xmlbridge.Option{xmlbridge.WithTable(c.table)}
	if c.annotations {
		opts = append(opts, xmlbridge.WithAnnotations())
	}

	return opts
}

// WithLogger reports entry failures and progress to logger.
func WithLogger(logger *slog.Logger) Option {
	return options.New(func(c *Config) error {
		if logger == nil {
			return errors.New("archive: nil logger")
		}
		c.logger = logger

		return nil
	})
}

// WithManifest writes dat_info.json or pakInfo.json next to the extracted files.
func WithManifest(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.manifest = enabled
	})
}

// WithTable resolves tag names with table when converting YAX entries.
func WithTable(table *hashname.Table) Option {
	return options.New(func(c *Config) error {
		if table == nil {
			return errors.New("archive: nil name table")
		}
		c.table = table

		return nil
	})
}

// WithAnnotations adds the informational str and id attributes to converted XML.
func WithAnnotations(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.annotations = enabled
	})
}

// WithDepth sets the nesting depth of the container. Containers extracting a nested
// container pass their own depth plus one.
func WithDepth(depth int) Option {
	return options.New(func(c *Config) error {
		if depth < 0 {
			return fmt.Errorf("archive: negative depth %d", depth)
		}
		c.depth = depth

		return nil
	})
}

// WithSource names the container file being extracted.
func WithSource(path string) Option {
	return options.NoError(func(c *Config) {
		c.source = path
	})
}
