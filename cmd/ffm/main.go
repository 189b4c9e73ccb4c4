package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"sync"

	"ffm/internal/forest"
	"ffm/internal/report"
	"ffm/internal/scenario"
	"ffm/internal/settings"
	"ffm/pkg/core"
)

// Rejected draws per iteration before the batch gives up.
const maxTries = 1000

type sample struct {
	iteration int
	loc       forest.Location
	res       forest.Results
	err       error
}

func main() {
	in := flag.String("in", "", "scenario file")
	level := flag.String("level", "", "output level: basic, detailed, comprehensive or montecarlo")
	iterations := flag.Int("iterations", 0, "Monte-Carlo iterations")
	seed := flag.Int64("seed", 0, "base seed for Monte-Carlo sampling")
	workers := flag.Int("workers", 0, "number of worker goroutines")
	showSettings := flag.Bool("settings", false, "print the model settings and exit")
	flag.Parse()

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	if *showSettings {
		printSettings(out)
		return
	}
	if *in == "" {
		log.Fatal("missing -in scenario file")
	}

	sc, err := scenario.Load(*in)
	if err != nil {
		log.Fatal(err)
	}

	overrides := map[string]string{}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "level":
			overrides["outputlevel"] = *level
		case "iterations":
			overrides["montecarloiterations"] = strconv.Itoa(*iterations)
		case "seed":
			overrides["seed"] = strconv.FormatInt(*seed, 10)
		case "workers":
			overrides["workers"] = strconv.Itoa(*workers)
		}
	})
	for k, v := range overrides {
		sc.Header[k] = v
	}
	cfg := sc.Config()

	if cfg.OutputLevel != scenario.MonteCarlo {
		loc, err := sc.Location(nil)
		if err != nil {
			log.Fatal(err)
		}
		if err := report.Location(out, loc, loc.Results(), cfg.OutputLevel); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := runBatch(out, sc, cfg); err != nil {
		log.Fatal(err)
	}
}

// runBatch samples cfg.Iterations locations on cfg.Workers goroutines and
// writes them in iteration order. Iteration i always draws from seed
// cfg.Seed+i, so the output does not depend on the worker count.
func runBatch(w io.Writer, sc *scenario.Scenario, cfg scenario.Config) error {
	n := cfg.Iterations
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	log.Printf("sampling %d locations (%d workers, seed %d)", n, workers, cfg.Seed)

	jobs := make(chan int)
	results := make(chan sample)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for it := range jobs {
				results <- runSample(sc, cfg.Seed, it)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for it := 0; it < n; it++ {
			jobs <- it
		}
		close(jobs)
	}()

	all := make([]sample, 0, n)
	for s := range results {
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].iteration < all[j].iteration })

	mc := report.NewMonteCarlo(w)
	header := false
	for _, s := range all {
		if s.err != nil {
			log.Printf("iteration %d: %v", s.iteration, s.err)
			continue
		}
		if !header {
			if err := mc.Header(s.loc); err != nil {
				return err
			}
			header = true
		}
		if err := mc.Row(s.loc, s.res); err != nil {
			return err
		}
	}
	if !header {
		return fmt.Errorf("no valid samples in %d iterations", n)
	}
	return nil
}

func runSample(sc *scenario.Scenario, seed int64, iteration int) sample {
	rng := core.NewRNG(seed + int64(iteration))
	loc, err := sc.Sample(rng, maxTries)
	if err != nil {
		return sample{iteration: iteration, err: err}
	}
	return sample{iteration: iteration, loc: loc, res: loc.Results()}
}

func printSettings(w io.Writer) {
	for _, g := range settings.Snapshot().Groups {
		fmt.Fprintln(w, g.Name)
		for _, p := range g.Params {
			fmt.Fprintf(w, "  %-45s %s %s\n", p.Label, p.Value, p.Unit)
		}
	}
}
