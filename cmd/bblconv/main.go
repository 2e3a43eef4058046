// Command bblconv decodes Betaflight/EmuFlight/iNav blackbox logs and
// exports their telemetry, GPS track and events.
//
// Grounded on app/convbin/convbin.go's main: parse flags, resolve the
// input file list, loop over each input continuing past per-file
// failures, and exit non-zero only when no input was processed
// successfully.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"blackbox/decode"
	"blackbox/export"
	"blackbox/internal/tracelog"
)

const progName = "bblconv"

func main() {
	var (
		debug       bool
		outputDir   string
		gpx         bool
		jsonl       bool
		event       bool
		forceExport bool
		gzipOut     bool
		convert     bool
	)

	flag.BoolVar(&debug, "debug", false, "enable trace logging to bblconv.trace")
	flag.StringVar(&outputDir, "output-dir", "", "directory to write exported files into")
	flag.BoolVar(&gpx, "gpx", false, "export a GPX track (alias -gps)")
	flag.BoolVar(&gpx, "gps", false, "export a GPX track (alias -gpx)")
	flag.BoolVar(&jsonl, "jsonl", false, "export JSON-lines records")
	flag.BoolVar(&event, "event", false, "export the event log")
	flag.BoolVar(&forceExport, "force-export", false, "overwrite existing output files")
	flag.BoolVar(&gzipOut, "gzip", false, "gzip-compress exported artifacts")
	flag.BoolVar(&convert, "convert", false, "apply unit conversion to exported values")
	flag.Parse()

	if debug {
		tracelog.Open(progName + ".trace")
		tracelog.Level(4)
		defer tracelog.Close()
	}

	inputs, err := expandInputs(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", progName, err)
		os.Exit(1)
	}
	if len(inputs) == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] file.bbl ...\n", progName)
		os.Exit(1)
	}

	opts := export.ExportOptions{
		CSV:         true,
		GPX:         gpx,
		JSONL:       jsonl,
		Event:       event,
		OutputDir:   outputDir,
		ForceExport: forceExport,
		Gzip:        gzipOut,
		Convert:     convert,
	}

	anyOK := false
	for _, path := range inputs {
		if err := processFile(path, opts); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s: %v\n", progName, path, err)
			tracelog.Trace(2, "%s: %v\n", path, err)
			continue
		}
		anyOK = true
	}
	if !anyOK {
		os.Exit(1)
	}
	os.Exit(0)
}

// expandInputs accepts both literal file paths and glob patterns, and
// filters directory args down to their .bbl/.bfl/.txt members
// (case-insensitive), per spec.md §6's input resolution.
func expandInputs(args []string) ([]string, error) {
	var out []string
	for _, a := range args {
		matches, err := filepath.Glob(a)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", a, err)
		}
		if len(matches) == 0 {
			matches = []string{a}
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil {
				out = append(out, m)
				continue
			}
			if info.IsDir() {
				entries, err := os.ReadDir(m)
				if err != nil {
					return nil, err
				}
				for _, e := range entries {
					if isLogFile(e.Name()) {
						out = append(out, filepath.Join(m, e.Name()))
					}
				}
				continue
			}
			out = append(out, m)
		}
	}
	return out, nil
}

func isLogFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".bbl" || ext == ".bfl" || ext == ".txt"
}

// processFile decodes one flight-data-recorder file (which may itself
// contain several independent logs, per spec.md §4.5) and exports each
// resulting session.
func processFile(path string, opts export.ExportOptions) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	sessions, errs := decode.AssembleFile(data)
	for _, e := range errs {
		tracelog.Tracet(2, "%v\n", e)
	}
	if len(sessions) == 0 {
		if len(errs) > 0 {
			return errs[0]
		}
		return fmt.Errorf("no decodable log found")
	}

	base := strings.TrimSuffix(path, filepath.Ext(path))
	var firstErr error
	for i, session := range sessions {
		sessionBase := base
		if len(sessions) > 1 {
			sessionBase = fmt.Sprintf("%s.%02d", base, i+1)
		}
		if err := exportSession(sessionBase, session, opts); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func exportSession(base string, session *decode.LogSession, opts export.ExportOptions) error {
	if !opts.ForceExport && export.ShouldSkip(session) {
		tracelog.Trace(3, "skipping uninteresting log %s\n", base)
		return nil
	}

	if opts.CSV {
		if err := export.WriteCSV(base, session, opts); err != nil {
			return err
		}
	}
	if opts.GPX {
		if err := export.WriteGPXFile(base, session, opts); err != nil {
			return err
		}
	}
	if opts.JSONL {
		if err := export.WriteJSONLinesFile(base, session, opts); err != nil {
			return err
		}
	}
	if opts.Event {
		if err := export.WriteEventsFile(base, session, opts); err != nil {
			return err
		}
	}
	return nil
}
