// Package cachegrind invokes valgrind's cachegrind tool on the current
// executable and parses its output file into event counters. The
// invocation shape (tool, cache geometry, output path) is fixed: it is
// the measurement contract that makes counters comparable across
// machines.
package cachegrind

import (
	"fmt"
)

// Stats is an immutable snapshot of the nine cachegrind event counters.
type Stats struct {
	// InstructionReads is the Ir counter, the instruction count used for
	// all complexity estimation.
	InstructionReads uint64

	// InstructionL1Misses is the I1mr counter.
	InstructionL1Misses uint64

	// InstructionCacheMisses is the ILmr counter (last-level instruction
	// read misses).
	InstructionCacheMisses uint64

	// DataReads is the Dr counter.
	DataReads uint64

	// DataL1ReadMisses is the D1mr counter.
	DataL1ReadMisses uint64

	// DataCacheReadMisses is the DLmr counter (last-level data read
	// misses).
	DataCacheReadMisses uint64

	// DataWrites is the Dw counter.
	DataWrites uint64

	// DataL1WriteMisses is the D1mw counter.
	DataL1WriteMisses uint64

	// DataCacheWriteMisses is the DLmw counter (last-level data write
	// misses).
	DataCacheWriteMisses uint64
}

// Summary is the three-level hit breakdown derived from a counter
// snapshot.
type Summary struct {
	// L1Hits is the number of accesses served by the L1 caches.
	L1Hits uint64

	// L3Hits is the number of accesses served by the last-level cache.
	L3Hits uint64

	// RAMHits is the number of accesses that went to main memory.
	RAMHits uint64
}

// RAMAccesses returns the number of accesses that missed the last-level
// cache.
func (s Stats) RAMAccesses() uint64 {
	return s.InstructionCacheMisses + s.DataCacheReadMisses + s.DataCacheWriteMisses
}

// Summarize derives the L1/L3/RAM hit counts. A negative intermediate
// means the counter snapshot is ill-formed and the parser input was
// bogus.
func (s Stats) Summarize() (Summary, error) {
	ramHits := s.RAMAccesses()

	l3Accesses := s.InstructionL1Misses + s.DataL1ReadMisses + s.DataL1WriteMisses
	if l3Accesses < ramHits {
		return Summary{}, fmt.Errorf("%w: last-level misses exceed L1 misses", ErrParseOutput)
	}
	l3Hits := l3Accesses - ramHits

	totalMemoryRW := s.InstructionReads + s.DataReads + s.DataWrites
	if totalMemoryRW < ramHits+l3Hits {
		return Summary{}, fmt.Errorf("%w: cache misses exceed total accesses", ErrParseOutput)
	}
	l1Hits := totalMemoryRW - (ramHits + l3Hits)

	return Summary{L1Hits: l1Hits, L3Hits: l3Hits, RAMHits: ramHits}, nil
}
