package alco

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bytesnake/alco/model"
	"github.com/bytesnake/alco/sampler"
)

// GroupResult holds the outcome of one benchmark group.
type GroupResult struct {
	// Name identifies the benchmark group.
	Name string `json:"name"`

	// Calibration is the instruction-read baseline of the setup-only
	// run.
	Calibration uint64 `json:"calibration"`

	// OldCalibration is the previous run's baseline, when an old output
	// file existed.
	OldCalibration *uint64 `json:"old_calibration,omitempty"`

	// Measurements is the number of observations taken.
	Measurements int `json:"measurements"`

	// Model is the fitted complexity model.
	Model *model.Model `json:"-"`

	// ModelString is the rendered model, for the JSON report.
	ModelString string `json:"model"`

	// DominantTerm is the term that dominates at the largest observed
	// parameter values.
	DominantTerm string `json:"dominant_term"`
}

// Report is the complete JSON output format for a run.
type Report struct {
	// Metadata about the run.
	Metadata ReportMetadata `json:"metadata"`

	// Results is the list of per-group results.
	Results []GroupResult `json:"results"`

	// Summary contains aggregate statistics.
	Summary ReportSummary `json:"summary"`
}

// ReportMetadata contains information about the run.
type ReportMetadata struct {
	// Timestamp when the run finished.
	Timestamp string `json:"timestamp"`

	// Version of the harness.
	Version string `json:"version"`

	// Config is the sampler configuration used.
	Config sampler.Config `json:"config"`
}

// ReportSummary contains aggregate statistics across all groups.
type ReportSummary struct {
	// TotalGroups is the number of benchmark groups run.
	TotalGroups int `json:"total_groups"`

	// TotalMeasurements is the number of cachegrind invocations, not
	// counting calibrations.
	TotalMeasurements int `json:"total_measurements"`
}

// printResults writes the per-group outcomes in a human-readable
// format.
func (r *Runner) printResults(results []GroupResult) {
	for _, res := range results {
		_, _ = fmt.Fprintf(r.out, "Benchmark: %s\n", res.Name)
		_, _ = fmt.Fprintf(r.out, "  Calibration:  %d instructions\n", res.Calibration)
		if res.OldCalibration != nil {
			_, _ = fmt.Fprintf(r.out, "  Previous:     %d instructions\n", *res.OldCalibration)
		}
		_, _ = fmt.Fprintf(r.out, "  Measurements: %d\n", res.Measurements)
		_, _ = fmt.Fprintf(r.out, "  Model:        %s\n", res.Model)
		_, _ = fmt.Fprintf(r.out, "  Dominant:     %s\n", res.Model.DominantTerm())
		_, _ = fmt.Fprintln(r.out, "")
	}
}

// PrintJSON writes the results as a JSON report for automated
// comparison.
func (r *Runner) PrintJSON(results []GroupResult) error {
	totalMeasurements := 0
	for i := range results {
		results[i].ModelString = results[i].Model.String()
		results[i].DominantTerm = results[i].Model.DominantTerm()
		totalMeasurements += results[i].Measurements
	}

	report := Report{
		Metadata: ReportMetadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   Version,
			Config:    *r.config,
		},
		Results: results,
		Summary: ReportSummary{
			TotalGroups:       len(results),
			TotalMeasurements: totalMeasurements,
		},
	}

	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
