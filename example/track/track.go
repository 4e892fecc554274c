/*
Example code showing how to run the BYTETracker over a file of per frame
detections, save the tracked output and compare it against a reference run
*/
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"
	"github.com/swdee/go-bytetrack/config"
	"github.com/swdee/go-bytetrack/dataset"
	"github.com/swdee/go-bytetrack/store"
	"github.com/swdee/go-bytetrack/tracker"
	"gopkg.in/yaml.v3"
)

// Harness drives the tracker frame by frame over a detections file
type Harness struct {
	cfg   *config.Config
	log   logs.Log
	bt    *tracker.BYTETracker
	db    *store.Store
	runID string
}

// NewHarness returns a harness for the given configuration.  If dbFile is
// set every tracked frame is also recorded in the SQLite database
func NewHarness(cfg *config.Config, logger logs.Log, dbFile string) (*Harness, error) {

	h := &Harness{
		cfg: cfg,
		log: logger,
		bt:  cfg.Tracker.New(),
	}

	h.bt.SetLogger(logger)

	if dbFile != "" {
		db, err := store.Open(dbFile)

		if err != nil {
			return nil, err
		}

		h.db = db
	}

	return h, nil
}

// Close the harness database if one was opened
func (h *Harness) Close() error {
	if h.db != nil {
		return h.db.Close()
	}
	return nil
}

// Run tracks every frame of the input and returns the tracked output
func (h *Harness) Run(in *dataset.Input, sourceFile string) (*dataset.Output, error) {

	if h.db != nil {
		params, err := yaml.Marshal(h.cfg)

		if err != nil {
			return nil, fmt.Errorf("failed to serialize config: %w", err)
		}

		h.runID, err = h.db.CreateRun(&store.Run{
			SourceFile:  sourceFile,
			Tracker:     h.cfg.Output.Tracker,
			TotalFrames: in.TotalFrames,
			ParamsYAML:  string(params),
		})

		if err != nil {
			return nil, err
		}

		h.log.Infof("Recording run %s", h.runID)
	}

	tracked := make([][]tracker.TrackedDetection, 0, len(in.Detections))
	var total time.Duration

	for frameNum, frame := range in.Detections {

		start := time.Now()
		out := h.bt.Update(frame)
		total += time.Since(start)

		tracked = append(tracked, out)

		if h.db != nil {
			if err := h.db.InsertFrame(h.runID, frameNum, out); err != nil {
				return nil, err
			}
		}

		every := h.cfg.Output.ProgressEvery

		if every > 0 && (frameNum+1)%every == 0 {
			h.log.Infof("Frame %d/%d: %d tracked objects", frameNum+1,
				in.TotalFrames, len(out))
		}
	}

	avg := 0.0

	if len(in.Detections) > 0 {
		avg = float64(total) / float64(len(in.Detections)) / float64(time.Millisecond)
	}

	if h.db != nil {
		if err := h.db.SetAvgPerformance(h.runID, avg); err != nil {
			return nil, err
		}
	}

	return &dataset.Output{
		SourceFile:       sourceFile,
		Tracker:          h.cfg.Output.Tracker,
		TotalFrames:      in.TotalFrames,
		AvgPerformanceMs: &avg,
		Detections:       tracked,
	}, nil
}

// Verify compares the output against a reference run and logs every
// difference, it returns true if the outputs match
func (h *Harness) Verify(out *dataset.Output, refFile string) (bool, error) {

	h.log.Infof("Comparing with reference output from %s", refFile)

	ref, err := dataset.LoadOutput(refFile)

	if err != nil {
		return false, err
	}

	mismatches := dataset.Compare(out, ref, float64(h.cfg.Output.Tolerance))

	for _, m := range mismatches {
		h.log.Warnf("%s", m)
	}

	if ref.AvgPerformanceMs != nil && out.AvgPerformanceMs != nil &&
		*out.AvgPerformanceMs > 0 {

		h.log.Infof("Performance comparison:")
		h.log.Infof("  Reference avg: %.4f ms", *ref.AvgPerformanceMs)
		h.log.Infof("  Go avg: %.4f ms", *out.AvgPerformanceMs)
		h.log.Infof("  Go is %.2fx faster than the reference",
			*ref.AvgPerformanceMs / *out.AvgPerformanceMs)
	}

	return len(mismatches) == 0, nil
}

func main() {

	parser := argparse.NewParser("track", "Run ByteTrack over per frame detections")
	input := parser.String("i", "input", &argparse.Options{Help: "Input detections JSON file", Required: true})
	output := parser.String("o", "output", &argparse.Options{Help: "Output tracked JSON file", Required: false, Default: "tracked.json"})
	configFile := parser.String("c", "config", &argparse.Options{Help: "Tracker YAML config file", Required: false, Default: ""})
	refFile := parser.String("r", "reference", &argparse.Options{Help: "Reference tracked JSON file to compare against", Required: false, Default: ""})
	dbFile := parser.String("", "db", &argparse.Options{Help: "SQLite database to record the run in", Required: false, Default: ""})
	progress := parser.Int("", "progress", &argparse.Options{Help: "Log progress every N frames, overrides the config when set", Required: false, Default: -1})
	err := parser.Parse(os.Args)

	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, err := logs.NewLog()

	if err != nil {
		fmt.Printf("Error creating logger: %v\n", err)
		os.Exit(1)
	}

	cfg := config.Default()

	if *configFile != "" {
		cfg, err = config.Load(*configFile)

		if err != nil {
			logger.Criticalf("%v", err)
			os.Exit(1)
		}
	}

	if *progress >= 0 {
		cfg.Output.ProgressEvery = *progress
	}

	logger.Infof("Loading detections from %s", *input)

	in, err := dataset.LoadInput(*input)

	if err != nil {
		logger.Criticalf("%v", err)
		os.Exit(1)
	}

	logger.Infof("Total frames: %d", in.TotalFrames)

	h, err := NewHarness(cfg, logger, *dbFile)

	if err != nil {
		logger.Criticalf("%v", err)
		os.Exit(1)
	}

	defer h.Close()

	out, err := h.Run(in, *input)

	if err != nil {
		logger.Criticalf("%v", err)
		h.Close()
		os.Exit(1)
	}

	if err := dataset.SaveOutput(*output, out); err != nil {
		logger.Criticalf("%v", err)
		h.Close()
		os.Exit(1)
	}

	logger.Infof("Saved tracked results to %s", *output)
	logger.Infof("Average tracker update time: %.4f ms", *out.AvgPerformanceMs)

	if *refFile == "" {
		return
	}

	matches, err := h.Verify(out, *refFile)

	if err != nil {
		logger.Criticalf("%v", err)
		h.Close()
		os.Exit(1)
	}

	if !matches {
		logger.Errorf("FAILURE: tracked output does NOT match the reference")
		h.Close()
		os.Exit(1)
	}

	logger.Infof("SUCCESS: tracked output matches the reference")
}
