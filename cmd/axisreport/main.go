// Command axisreport grades recorded smooth_axis test traces and renders
// evidence boards. It discovers ramp scenarios in a trace directory, runs
// the settle-time and monotonicity analysis over each, renders the
// settle-time behavior matrix (PNG, optionally HTML), renders the
// step-response accuracy grid from pre-computed summaries, and prints the
// batch accuracy report.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/Viderspace/smooth-axis/internal/analysis"
	"github.com/Viderspace/smooth-axis/internal/board"
	"github.com/Viderspace/smooth-axis/internal/report"
	"github.com/Viderspace/smooth-axis/internal/scenario"
	"github.com/Viderspace/smooth-axis/internal/trace"
)

var (
	rampDir   = flag.String("ramp-dir", "tests/data/ramp_files", "Directory of ramp scenario CSVs")
	stepDir   = flag.String("step-dir", "tests/data/step_files", "Directory of step traces and summaries")
	outDir    = flag.String("out", "tests/data/renders", "Output directory for rendered boards")
	motionEnd = flag.Float64("motion-end", 1.0, "Timestamp (s) the commanded input reaches its target")
	htmlBoard = flag.Bool("html", false, "Also render the interactive HTML board")
	skipStep  = flag.Bool("skip-step", false, "Skip the step-response board and summary")
)

func main() {
	flag.Parse()

	runID := uuid.New()
	var acc analysis.Accumulator

	scens, err := scenario.Discover(*rampDir)
	if err != nil {
		log.Fatalf("discover scenarios in %s: %v", *rampDir, err)
	}
	if len(scens) == 0 {
		log.Fatalf("no scenarios parsed from %s", *rampDir)
	}
	log.Printf("Loaded %d scenarios from %s", len(scens), *rampDir)

	ramp := board.NewRampBoard(*outDir)
	ramp.MotionEnd = *motionEnd
	out, err := ramp.Render(scens, &acc)
	if err != nil {
		log.Fatalf("render ramp board: %v", err)
	}
	log.Printf("Saved env matrix evidence board to %s", out)

	if *htmlBoard {
		htmlOut, err := board.RenderHTML(scens, *outDir)
		if err != nil {
			log.Printf("WARNING: render HTML board: %v", err)
		} else {
			log.Printf("Saved interactive board to %s", htmlOut)
		}
	}

	if !*skipStep {
		runStep(&acc)
	}

	if err := report.WriteBatchReport(os.Stdout, runID, acc.Finalize()); err != nil {
		log.Fatalf("write batch report: %v", err)
	}
}

// runStep renders the step-response board and writes its text summary.
// Missing step data degrades to a warning; the ramp batch report still runs.
func runStep(acc *analysis.Accumulator) {
	step := board.NewStepBoard(*stepDir, *outDir)

	out, err := step.Render(acc)
	if err != nil {
		log.Printf("WARNING: render step board: %v", err)
		return
	}
	log.Printf("Saved step response board to %s", out)

	clean, err := trace.LoadStepResults(filepath.Join(*stepDir, "step_results_clean.csv"))
	if err != nil {
		log.Printf("WARNING: load clean step results: %v", err)
		return
	}
	noisy, err := trace.LoadStepResults(filepath.Join(*stepDir, "step_results_noisy.csv"))
	if err != nil {
		log.Printf("WARNING: load noisy step results: %v", err)
		return
	}

	summaryPath := filepath.Join(*stepDir, "step_test_summary.txt")
	f, err := os.Create(summaryPath)
	if err != nil {
		log.Printf("WARNING: create step summary: %v", err)
		return
	}
	defer f.Close()

	if err := report.WriteStepSummary(f, clean, noisy); err != nil {
		log.Printf("WARNING: write step summary: %v", err)
		return
	}
	log.Printf("Saved step summary to %s", summaryPath)
}
