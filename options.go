package edsearch

// QueryOption represents a content store query option.
type QueryOption interface {
	Apply(*QueryConfig)
}

// QueryConfig holds all content store query parameters.
type QueryConfig struct {
	// Limit specifies the maximum number of items to return.
	Limit int

	// Include lists related sub-objects to include by relation name.
	Include []string

	// Filters contains filter expressions to apply.
	Filters []Expression
}

// optionFunc is a function that implements QueryOption.
type optionFunc func(*QueryConfig)

// Apply implements the QueryOption interface for optionFunc.
func (f optionFunc) Apply(cfg *QueryConfig) {
	f(cfg)
}

// WithLimit sets the maximum number of items to return.
func WithLimit(n int) QueryOption {
	return optionFunc(func(cfg *QueryConfig) {
		cfg.Limit = n
	})
}

// WithInclude requests related sub-objects by relation name. Stores that
// keep relations denormalized inside item fields may ignore it.
func WithInclude(relations ...string) QueryOption {
	return optionFunc(func(cfg *QueryConfig) {
		cfg.Include = append(cfg.Include, relations...)
	})
}
