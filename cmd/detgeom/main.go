package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/lukaszgryglicki/detgeom/internal/detgeom"
)

func main() {
	detgeom.Debug = os.Getenv("DEBUG") != ""
	if detgeom.Debug {
		detgeom.SetLogWriters(os.Stderr, os.Stdout, os.Stdout)
	} else {
		detgeom.SetLogWriters(os.Stderr, os.Stdout, nil)
	}
	profile := os.Getenv("PROFILE") != ""
	if profile {
		f, err := os.Create("cpu.out")
		if err != nil {
			panic(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	cfg := "geometry/config.json"
	if len(os.Args) > 1 {
		cfg = os.Args[1]
	}
	if err := detgeom.Run(cfg); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
