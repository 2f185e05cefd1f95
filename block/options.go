package block

import (
	"github.com/arloliu/tachyon/genotype"
	"github.com/arloliu/tachyon/internal/options"
	"github.com/arloliu/tachyon/meta"
)

// Option configures a Block at construction time via Init.
type Option = options.Option[*Block]

// WithVariantCapacityHint preallocates the block's per-variant slices
// (meta-hot, meta-cold, genotype records) to n entries, avoiding repeated
// growth when the caller already knows roughly how many variants a block
// will accumulate before it is flushed.
func WithVariantCapacityHint(n int) Option {
	return options.NoError(func(b *Block) {
		if n <= 0 {
			return
		}
		b.hot = make([]meta.Hot, 0, n)
		b.cold = make([]meta.Cold, 0, n)
		b.gtRecords = make([]genotype.Record, 0, n)
		b.gtAlleleCounts = make([]int, 0, n)
	})
}
