package xmlbridge

import (
	"errors"

	"github.com/arloliu/nierarc/hashname"
	"github.com/arloliu/nierarc/internal/options"
)

type config struct {
	table       *hashname.Table
	annotations bool
}

// Option configures Tokens, Write and Read.
type Option = options.Option[*config]

func newConfig(opts ...Option) (*config, error) {
	return options.Build(func() *config {
		return &config{table: hashname.Default()}
	}, opts...)
}

// WithTable replaces the default tag name table.
func WithTable(table *hashname.Table) Option {
	return options.New(func(c *config) error {
		if table == nil {
			return errors.New("xmlbridge: nil name table")
		}
		c.table = table

		return nil
	})
}

// WithAnnotations adds the informational str and id attributes on output.
func WithAnnotations() Option {
	return options.NoError(func(c *config) {
		c.annotations = true
	})
}
