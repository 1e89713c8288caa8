// Command primesieve counts, prints or benchmarks primes and prime
// k-tuplets over a range, optionally spread across multiple goroutines.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/klauspost/cpuid/v2"
	"github.com/sugawarayuuta/sonnet"

	"github.com/haribomueller/primesieve"
	"github.com/haribomueller/primesieve/internal/affinity"
	"github.com/haribomueller/primesieve/internal/verify"
)

var counterNames = []string{"primes", "twins", "triplets", "quadruplets", "quintuplets", "sextuplets", "septuplets"}

type jsonResult struct {
	Start   uint64            `json:"start"`
	Stop    uint64            `json:"stop"`
	Threads int               `json:"threads"`
	Counts  map[string]uint64 `json:"counts"`
	Elapsed string            `json:"elapsed"`
	Hash    string            `json:"hash"`
}

func main() {
	var (
		start         = flag.Uint64("start", 0, "inclusive lower bound")
		stop          = flag.Uint64("stop", 1000000, "inclusive upper bound")
		threads       = flag.Int("threads", 0, "worker goroutines (0 = one per logical CPU)")
		countFlag     = flag.String("count", "primes", "comma-separated counters: "+strings.Join(append(counterNames, "all"), ",")+" or none")
		printFlag     = flag.String("print", "", "comma-separated counters to print, same vocabulary as -count")
		status        = flag.Bool("status", false, "set the PrintStatus flag (no progress output is written; a multi-thread run falls back to one worker)")
		sieveSize     = flag.Uint("sieve-size", uint(primesieve.DefaultSieveSize), "segment size in bytes")
		preSieveLimit = flag.Uint("presieve-limit", uint(primesieve.DefaultPreSieve), "largest tiny prime folded into the pre-sieve tile (13..23)")
		cpuProfile    = flag.String("cpuprofile", "", "write a CPU profile to this file")
		jsonOut       = flag.Bool("json", false, "emit a JSON summary instead of plain text")
		info          = flag.Bool("info", false, "print detected CPU info and exit")
		pin           = flag.Bool("affinity", false, "pin the invoking thread to CPU 0 before sieving (best effort, Linux only)")
	)
	flag.Parse()

	if *info {
		printCPUInfo()
		return
	}

	if *pin {
		if !affinity.Available() {
			log.Printf("affinity pinning is not supported on %s, ignoring -affinity", runtime.GOOS)
		} else if err := affinity.PinCurrentThread(0); err != nil {
			log.Printf("affinity pinning failed: %v", err)
		}
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatalf("creating cpu profile: %v", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("starting cpu profile: %v", err)
		}
		defer pprof.StopCPUProfile()
	}

	ps := primesieve.New()
	if _, err := ps.SetStart(*start); err != nil {
		log.Fatalf("%v", err)
	}
	if _, err := ps.SetStop(*stop); err != nil {
		log.Fatalf("%v", err)
	}
	if err := ps.SetSieveSize(uint32(*sieveSize)); err != nil {
		log.Fatalf("%v", err)
	}
	if err := ps.SetPreSieveLimit(uint32(*preSieveLimit)); err != nil {
		log.Fatalf("%v", err)
	}

	var f primesieve.Flags
	f |= parseCounters(*countFlag, true)
	f |= parseCounters(*printFlag, false)
	if *status {
		f |= primesieve.PrintStatus
	}
	if err := ps.SetFlags(f); err != nil {
		log.Fatalf("%v", err)
	}

	n := *threads
	if n == 0 {
		n = cpuid.CPU.LogicalCores
		if n < 1 {
			n = runtime.NumCPU()
		}
	}

	var err error
	if n <= 1 {
		err = ps.Sieve()
	} else {
		err = ps.SieveParallel(n)
	}
	if err != nil {
		log.Fatalf("sieve failed: %v", err)
	}

	counts := [7]uint64{}
	for i := range counts {
		counts[i], _ = ps.GetCounts(i)
	}
	elapsed := ps.GetTimeElapsed()

	if *jsonOut {
		emitJSON(*start, *stop, n, counts, elapsed)
		return
	}
	emitText(*start, *stop, n, counts, elapsed)
}

func parseCounters(csv string, isCount bool) primesieve.Flags {
	var f primesieve.Flags
	for _, name := range strings.Split(csv, ",") {
		name = strings.TrimSpace(strings.ToLower(name))
		switch name {
		case "", "none":
			continue
		case "all":
			if isCount {
				f |= primesieve.CountAll
			} else {
				f |= primesieve.PrintAll
			}
		default:
			for i, n := range counterNames {
				if n == name {
					if isCount {
						f |= primesieve.CountPrimes << uint(i)
					} else {
						f |= primesieve.PrintPrimes << uint(i)
					}
				}
			}
		}
	}
	return f
}

func emitText(start, stop uint64, threads int, counts [7]uint64, elapsed time.Duration) {
	fmt.Printf("range:   [%d, %d]\n", start, stop)
	fmt.Printf("threads: %d\n", threads)
	for i, name := range counterNames {
		if counts[i] > 0 {
			fmt.Printf("%-12s %d\n", name+":", counts[i])
		}
	}
	fmt.Printf("elapsed: %s\n", elapsed)
	fmt.Printf("hash:    %s\n", verify.Hash(counts))
}

func emitJSON(start, stop uint64, threads int, counts [7]uint64, elapsed time.Duration) {
	result := jsonResult{
		Start:   start,
		Stop:    stop,
		Threads: threads,
		Counts:  map[string]uint64{},
		Elapsed: elapsed.String(),
		Hash:    verify.Hash(counts),
	}
	for i, name := range counterNames {
		result.Counts[name] = counts[i]
	}
	enc := sonnet.NewEncoder(os.Stdout)
	if err := enc.Encode(result); err != nil {
		log.Fatalf("encoding json: %v", err)
	}
}

func printCPUInfo() {
	c := cpuid.CPU
	fmt.Printf("brand:          %s\n", c.BrandName)
	fmt.Printf("physical cores: %d\n", c.PhysicalCores)
	fmt.Printf("logical cores:  %d\n", c.LogicalCores)
	fmt.Printf("cache line:     %d bytes\n", c.CacheLine)
	fmt.Printf("L1 data cache:  %d bytes\n", c.Cache.L1D)
	fmt.Printf("L2 cache:       %d bytes\n", c.Cache.L2)
	fmt.Printf("L3 cache:       %d bytes\n", c.Cache.L3)
}
