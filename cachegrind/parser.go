package cachegrind

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// eventNames lists the counters cachegrind reports with the default
// event set, in no particular order. All of them must be present.
var eventNames = []string{
	"Ir", "I1mr", "ILmr", "Dr", "D1mr", "DLmr", "Dw", "D1mw", "DLmw",
}

// ParseOutput reads a cachegrind output file and extracts the nine event
// counters. Only the events: and summary: lines are consumed; everything
// else in the file is per-function detail this system does not use.
func ParseOutput(path string) (Stats, error) {
	file, err := os.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("%w: %v", ErrParseOutput, err)
	}
	defer file.Close()

	var eventsLine, summaryLine string

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if rest, ok := strings.CutPrefix(line, "events: "); ok {
			eventsLine = strings.TrimSpace(rest)
		}
		if rest, ok := strings.CutPrefix(line, "summary: "); ok {
			summaryLine = strings.TrimSpace(rest)
		}
	}
	if err := scanner.Err(); err != nil {
		return Stats{}, fmt.Errorf("%w: %v", ErrParseOutput, err)
	}

	if eventsLine == "" || summaryLine == "" {
		return Stats{}, fmt.Errorf("%w: missing events or summary line in %s", ErrParseOutput, path)
	}

	events := strings.Fields(eventsLine)
	totals := strings.Fields(summaryLine)

	counters := make(map[string]uint64, len(events))
	for i, name := range events {
		if i >= len(totals) {
			break
		}
		value, err := strconv.ParseUint(totals[i], 10, 64)
		if err != nil {
			return Stats{}, fmt.Errorf("%w: bad summary value %q: %v", ErrParseOutput, totals[i], err)
		}
		counters[name] = value
	}

	for _, name := range eventNames {
		if _, ok := counters[name]; !ok {
			return Stats{}, fmt.Errorf("%w: event %q missing in %s", ErrParseOutput, name, path)
		}
	}

	return Stats{
		InstructionReads:       counters["Ir"],
		InstructionL1Misses:    counters["I1mr"],
		InstructionCacheMisses: counters["ILmr"],
		DataReads:              counters["Dr"],
		DataL1ReadMisses:       counters["D1mr"],
		DataCacheReadMisses:    counters["DLmr"],
		DataWrites:             counters["Dw"],
		DataL1WriteMisses:      counters["D1mw"],
		DataCacheWriteMisses:   counters["DLmw"],
	}, nil
}
