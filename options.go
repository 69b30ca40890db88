package iceberg

// tableConfig holds construction-time configuration for a Table, mirroring
// the teacher's config/Option split (options.go's config struct and
// Option func(*config)).
type tableConfig struct {
	l2Capacity int // C_LV2: target average L2 slots per block
	maxLgLgN   int // MAX_LG_LG_N: budgets L2 slop, extra = maxLgLgN/DChoices
	seeds      [numSeeds]uint64
}

func defaultTableConfig() *tableConfig {
	return &tableConfig{
		l2Capacity: 8,
		maxLgLgN:   4,
		seeds:      defaultSeeds,
	}
}

// Option configures a Table at construction time.
type Option func(*tableConfig)

// WithL2Capacity sets C_LV2, the target average occupancy (slots per block)
// of the secondary tier. Default is 8.
func WithL2Capacity(n int) Option {
	return func(c *tableConfig) {
		c.l2Capacity = n
	}
}

// WithMaxLgLgN sets MAX_LG_LG_N, the max log-log-capacity term that budgets
// extra slop per L2 block (extra slots = MaxLgLgN/DChoices). Default is 4.
func WithMaxLgLgN(n int) Option {
	return func(c *tableConfig) {
		c.maxLgLgN = n
	}
}

// WithSeeds overrides the five keyed-hash seeds. Intended for tests that
// need deterministic fingerprint/index derivation; production callers
// should leave this unset.
func WithSeeds(seeds [numSeeds]uint64) Option {
	return func(c *tableConfig) {
		c.seeds = seeds
	}
}
