package voidprobe

import "github.com/akbstat/void-probe/probe"

// ExtractOptions holds the configuration of an Extractor.
type ExtractOptions struct {
	// Page selection (1-indexed in API, stored as-is)
	pages []int

	rule probe.Rule
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		pages: nil, // nil means all pages
		rule:  probe.DefaultRule(),
	}
}

// clone creates a deep copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := ExtractOptions{
		rule: probe.Rule{
			Contains: append([]string(nil), o.rule.Contains...),
			Prefixes: append([]string(nil), o.rule.Prefixes...),
		},
	}

	// Deep copy pages slice
	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}

	return newOpts
}
