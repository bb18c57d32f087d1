package cachegrind_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bytesnake/alco/cachegrind"
)

// sampleOutput mimics a cachegrind output file: per-function detail
// lines surround the events and summary lines the parser consumes.
const sampleOutput = `desc: I1 cache: 32768 B, 64 B, 8-way associative
desc: D1 cache: 32768 B, 64 B, 8-way associative
desc: LL cache: 8388608 B, 64 B, 16-way associative
cmd: ./bench --internal-run 0 n§usize§16
events: Ir I1mr ILmr Dr D1mr DLmr Dw D1mw DLmw
fl=(1) bench.go
fn=(1) main.main
12 100 1 1 50 2 1 30 1 1
summary: 1000 20 10 400 30 12 300 25 8
`

var _ = Describe("ParseOutput", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	writeOutput := func(content string) string {
		path := filepath.Join(dir, "cachegrind.out.test")
		Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
		return path
	}

	It("should extract all nine counters", func() {
		stats, err := cachegrind.ParseOutput(writeOutput(sampleOutput))

		Expect(err).NotTo(HaveOccurred())
		Expect(stats).To(Equal(cachegrind.Stats{
			InstructionReads:       1000,
			InstructionL1Misses:    20,
			InstructionCacheMisses: 10,
			DataReads:              400,
			DataL1ReadMisses:       30,
			DataCacheReadMisses:    12,
			DataWrites:             300,
			DataL1WriteMisses:      25,
			DataCacheWriteMisses:   8,
		}))
	})

	It("should fail when the summary line is missing", func() {
		content := "events: Ir I1mr ILmr Dr D1mr DLmr Dw D1mw DLmw\n"

		_, err := cachegrind.ParseOutput(writeOutput(content))

		Expect(err).To(MatchError(cachegrind.ErrParseOutput))
	})

	It("should fail when an expected event name is missing", func() {
		content := "events: Ir I1mr Dr\nsummary: 1 2 3\n"

		_, err := cachegrind.ParseOutput(writeOutput(content))

		Expect(err).To(MatchError(cachegrind.ErrParseOutput))
	})

	It("should fail on malformed summary values", func() {
		content := "events: Ir I1mr ILmr Dr D1mr DLmr Dw D1mw DLmw\n" +
			"summary: 1 2 3 4 5 6 7 8 x\n"

		_, err := cachegrind.ParseOutput(writeOutput(content))

		Expect(err).To(MatchError(cachegrind.ErrParseOutput))
	})

	It("should fail on a missing file", func() {
		_, err := cachegrind.ParseOutput(filepath.Join(dir, "does-not-exist"))

		Expect(err).To(MatchError(cachegrind.ErrParseOutput))
	})
})

var _ = Describe("Stats", func() {
	stats := cachegrind.Stats{
		InstructionReads:       1000,
		InstructionL1Misses:    20,
		InstructionCacheMisses: 10,
		DataReads:              400,
		DataL1ReadMisses:       30,
		DataCacheReadMisses:    12,
		DataWrites:             300,
		DataL1WriteMisses:      25,
		DataCacheWriteMisses:   8,
	}

	It("should sum last-level misses into RAM accesses", func() {
		Expect(stats.RAMAccesses()).To(Equal(uint64(30)))
	})

	It("should derive a consistent hit summary", func() {
		summary, err := stats.Summarize()

		Expect(err).NotTo(HaveOccurred())
		Expect(summary.RAMHits).To(Equal(uint64(30)))
		Expect(summary.L3Hits).To(Equal(uint64(45)))

		total := stats.InstructionReads + stats.DataReads + stats.DataWrites
		Expect(summary.L1Hits + summary.L3Hits + summary.RAMHits).To(Equal(total))
	})

	It("should reject snapshots where last-level misses exceed L1 misses", func() {
		bad := stats
		bad.InstructionCacheMisses = 1000

		_, err := bad.Summarize()

		Expect(err).To(MatchError(cachegrind.ErrParseOutput))
	})

	It("should reject snapshots where misses exceed total accesses", func() {
		bad := cachegrind.Stats{
			InstructionReads:    1,
			InstructionL1Misses: 100,
		}

		_, err := bad.Summarize()

		Expect(err).To(MatchError(cachegrind.ErrParseOutput))
	})
})
