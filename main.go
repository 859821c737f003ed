/*
Copyright 2026 The trackspan authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trackspan/trackspan/internal/buildinfo"
	"github.com/trackspan/trackspan/pkg/detection"
	"github.com/trackspan/trackspan/pkg/iset"
	"github.com/trackspan/trackspan/pkg/query"
)

var (
	version    = "dev"
	commitHash = "n/a"
	buildDate  = "<unknown>"
)

func main() {
	var detectionsPath, queryPath, leftName, rightName string
	var window float64
	var loglevel int
	var showVersion bool

	flag.StringVar(&detectionsPath, "detections", "", "Per-frame detection CSV: frame,person_score,dog_score,_,person_class,dog_class.")
	flag.StringVar(&queryPath, "query", "", "Declarative query document (YAML). Empty runs the built-in class-filter join.")
	flag.StringVar(&leftName, "left", "person", "Detection category joined on the left.")
	flag.StringVar(&rightName, "right", "dog", "Detection category joined on the right.")
	flag.Float64Var(&window, "window", 0, "Temporal window of the built-in join, in frames.")
	flag.IntVar(&loglevel, "loglevel", 0, "Log verbosity (higher is chattier).")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit.")
	flag.Parse()

	info := buildinfo.New(version, commitHash, buildDate)
	if showVersion {
		fmt.Println(info.String())
		return
	}

	log := makeLogger(loglevel)
	setupLog := log.WithName("setup")
	setupLog.Info(fmt.Sprintf("starting trackspan %s", info.String()))

	if detectionsPath == "" {
		setupLog.Error(fmt.Errorf("missing -detections argument"), "no input")
		os.Exit(1)
	}

	records, err := loadDetections(detectionsPath)
	if err != nil {
		setupLog.Error(err, "cannot load detections", "path", detectionsPath)
		os.Exit(1)
	}

	mappings, err := detection.BuildMapping(records)
	if err != nil {
		setupLog.Error(err, "cannot build interval mappings")
		os.Exit(1)
	}

	left, ok := mappings[leftName]
	if !ok {
		setupLog.Error(fmt.Errorf("no detections for category %q", leftName), "unknown category")
		os.Exit(1)
	}
	right, ok := mappings[rightName]
	if !ok {
		setupLog.Error(fmt.Errorf("no detections for category %q", rightName), "unknown category")
		os.Exit(1)
	}

	start := time.Now()
	var results int

	if queryPath != "" {
		data, err := os.ReadFile(queryPath)
		if err != nil {
			setupLog.Error(err, "cannot read query document", "path", queryPath)
			os.Exit(1)
		}
		q, err := query.FromYAML(data)
		if err != nil {
			setupLog.Error(err, "cannot parse query document", "path", queryPath)
			os.Exit(1)
		}

		res, err := query.Run(q, detection.Documents(left), detection.Documents(right), log.WithName("query"))
		if err != nil {
			setupLog.Error(err, "query failed")
			os.Exit(1)
		}
		results = res.Size()
	} else {
		classOnly := func(iv iset.Interval[detection.Detection]) bool { return iv.Payload.Class }
		l := left.Filter(classOnly)
		r := right.Filter(classOnly)
		log.V(2).Info("filtered detections", leftName, l.Size(), rightName, r.Size())

		res, err := iset.JoinMaps(l, r,
			iset.OnBounds[detection.Detection, detection.Detection](iset.TEqual()),
			iset.SpanPair[detection.Detection, detection.Detection](),
			window)
		if err != nil {
			setupLog.Error(err, "join failed")
			os.Exit(1)
		}
		results = res.Size()
	}

	log.Info("done", "left", left.Size(), "right", right.Size(),
		"results", results, "elapsed", time.Since(start).String())
}

func makeLogger(loglevel int) logr.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(os.Stderr), zapcore.Level(-loglevel))
	return zapr.NewLogger(zap.New(core))
}

// loadDetections reads the two-category demo CSV the upstream detector
// emits: one row per frame, scores in columns 1-2 and class flags in columns
// 4-5. All detections land under partition 0 with full-frame boxes.
func loadDetections(path string) (map[int][]detection.FrameRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}

	frames := []detection.FrameRecord{}
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 6 {
			return nil, fmt.Errorf("row %d: expected 6 columns, got %d", i, len(row))
		}

		frame, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad frame ID %q: %w", i, row[0], err)
		}
		personScore, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad person score %q: %w", i, row[1], err)
		}
		dogScore, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad dog score %q: %w", i, row[2], err)
		}

		frames = append(frames, detection.FrameRecord{
			Frame: frame,
			Detections: map[string]detection.Detection{
				"person": {
					Label: "person",
					Score: personScore,
					Class: row[4] == "True",
					Box:   detection.FullFrame,
				},
				"dog": {
					Label: "dog",
					Score: dogScore,
					Class: row[5] == "True",
					Box:   detection.FullFrame,
				},
			},
		})
	}

	return map[int][]detection.FrameRecord{0: frames}, nil
}
