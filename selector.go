package hubness

// SelectorConfig controls bad-hub filtering.
// Start with [DefaultSelectorConfig] and override the fields you need.
type SelectorConfig struct {
	// HubStdDevs is how many standard deviations above the mean occurrence
	// count a point must reach to count as a hub. Must be > 0. 0 means the
	// default. Default: 2.
	HubStdDevs float64
}

// DefaultSelectorConfig returns a SelectorConfig with the defaults.
func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{HubStdDevs: hubStdDevs}
}

// applySelectorDefaults fills in zero-valued config fields.
func applySelectorDefaults(cfg *SelectorConfig) {
	if cfg.HubStdDevs == 0 {
		cfg.HubStdDevs = hubStdDevs
	}
}

// validateSelectorConfig checks that cfg fields are valid.
func validateSelectorConfig(cfg *SelectorConfig) error {
	if cfg.HubStdDevs <= 0 {
		return configErrorf("HubStdDevs must be > 0, got %v", cfg.HubStdDevs)
	}
	return nil
}

// FilterBadHubs selects instances for a reduced training set by dropping
// harmful hubs: points whose occurrence count crosses the hub threshold and
// whose good-minus-bad differential is negative. Everything else is kept.
// Returns the kept indices in ascending order; the finder is read-only.
func FilterBadHubs(nsf *NeighborSetFinder, cfg SelectorConfig) ([]int, error) {
	if nsf == nil {
		return nil, configErrorf("nil neighbor set finder")
	}
	applySelectorDefaults(&cfg)
	if err := validateSelectorConfig(&cfg); err != nil {
		return nil, err
	}

	total := nsf.TotalOccurrences()
	good := nsf.GoodOccurrences()
	bad := nsf.BadOccurrences()

	mean, std := MeanStdDev(total)
	threshold := mean + cfg.HubStdDevs*std

	kept := make([]int, 0, len(total))
	for i := range total {
		if float64(total[i]) >= threshold && good[i]-bad[i] < 0 {
			continue
		}
		kept = append(kept, i)
	}
	return kept, nil
}

// SelectGoodHubs returns the m points most beneficial as neighbors (largest
// good-minus-bad differential), best first. Useful for prototype selection.
func SelectGoodHubs(nsf *NeighborSetFinder, m int) []int {
	return GoodHubIndices(nsf.GoodOccurrences(), nsf.BadOccurrences(), m)
}
