// Package transform implements the post-consolidation normalization rules as
// small composable transformers over a RecordSet. Each rule is its own type;
// a Chain applies them in configured order. Rules report recoverable problems
// and automatic corrections through the run's collector instead of failing.
package transform

import "hretl/internal/records"

// ProvenanceColumn is the column appended at consolidation holding the name
// of the source each row came from. Dedup ignores it.
const ProvenanceColumn = "source"

// Transformer mutates or replaces a RecordSet.
type Transformer interface {
	Apply(*records.RecordSet) *records.RecordSet
}

// Chain is an ordered list of transformers.
type Chain []Transformer

func (c Chain) Apply(in *records.RecordSet) *records.RecordSet {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}
