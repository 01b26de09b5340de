package planner

import "sort"

// SizeIndex maps exact byte sizes to one representative media file each.
// Tolerance is applied at lookup time, not at build time, so a single
// index serves any tolerance.
type SizeIndex struct {
	bySize map[int64]FileRecord
	sizes  []int64 // distinct sizes, ascending
}

// BuildSizeIndex indexes media records by exact byte size. On size
// collisions the last record wins; one representative per size is enough
// because any of them proves the content exists in the library.
func BuildSizeIndex(records []FileRecord) *SizeIndex {
	bySize := make(map[int64]FileRecord, len(records))
	for _, rec := range records {
		bySize[rec.Size] = rec
	}

	sizes := make([]int64, 0, len(bySize))
	for size := range bySize {
		sizes = append(sizes, size)
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i] < sizes[j] })

	return &SizeIndex{bySize: bySize, sizes: sizes}
}

// Len returns the number of distinct sizes in the index
func (ix *SizeIndex) Len() int {
	return len(ix.sizes)
}

// Lookup finds a media record whose size is within tolerance of the
// probe: |size - mediaSize| <= tolerance, closed interval. The first
// entry at or above the window's lower bound wins; there is deliberately
// no preference for the closest size.
func (ix *SizeIndex) Lookup(size, tolerance int64) (FileRecord, bool) {
	lo := size - tolerance
	hi := size + tolerance

	i := sort.Search(len(ix.sizes), func(i int) bool { return ix.sizes[i] >= lo })
	if i == len(ix.sizes) || ix.sizes[i] > hi {
		return FileRecord{}, false
	}
	return ix.bySize[ix.sizes[i]], true
}
