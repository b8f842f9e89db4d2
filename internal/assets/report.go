package assets

import (
	"maps"
	"path/filepath"
	"slices"
	"time"

	"github.com/wolfeidau/assetconf/internal/pipeline"
)

// Report summarises a completed build
type Report struct {
	BuildID    string
	Mode       pipeline.Mode
	Outputs    []OutputReport
	// Emitted lists files written by plugin steps, in emission order
	Emitted    []string
	Compressed int
	Duration   time.Duration
	// Notes lists settings the bundler applied differently than resolved
	Notes      []pipeline.Note
}

// OutputReport breaks down one output file by split group. Bytes from modules
// outside every split group are counted under AppGroup.
type OutputReport struct {
	Path   string
	Bytes  int
	Groups map[string]int
}

// AppGroup collects application code that matches no split group
const AppGroup = "app"

func classifyOutputs(metadata *BuildMetadata, groups *pipeline.GroupMatcher, workDir string) []OutputReport {
	paths := slices.Sorted(maps.Keys(metadata.Outputs))
	reports := make([]OutputReport, 0, len(paths))

	for _, outputPath := range paths {
		info := metadata.Outputs[outputPath]
		report := OutputReport{Path: outputPath, Bytes: info.Bytes, Groups: map[string]int{}}

		for input, contrib := range info.Inputs {
			// split group tests run against full module paths
			modulePath := filepath.ToSlash(filepath.Join(workDir, input))
			name := AppGroup
			if group, ok := groups.GroupFor(modulePath); ok {
				name = group.Name
			}
			report.Groups[name] += contrib.BytesInOutput
		}

		reports = append(reports, report)
	}

	return reports
}

// GroupBytes returns the bytes across all outputs attributed to group
func (r *Report) GroupBytes(group string) int {
	total := 0
	for _, o := range r.Outputs {
		total += o.Groups[group]
	}
	return total
}
