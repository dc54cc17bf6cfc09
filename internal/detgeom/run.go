package detgeom

import (
	"os"
	"time"
)

// Run loads the config at cfgPath, builds the detector tree and reports on
// it: description, coverage, spot collection and scores, z and resolution
// limits. The refreshed geometry is written to GeometryOut when set.
func Run(cfgPath string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	r, err := NewRegistryFromConfig(cfg)
	if err != nil {
		return err
	}
	if !r.Active() {
		opsf("run %s: no detectorList in %s, detector-tree mode is off", r.RunID, cfgPath)
		return nil
	}

	r.Refresh()
	r.FullDescription()

	start := time.Now()
	frac := r.EstimateCoverage(cfg.CoverageSamples, cfg.Workers, 0)
	diagf("run %s: coverage %.4f (gaps %.4f), time: %s", r.RunID, frac, 1-frac, time.Since(start))

	if len(cfg.Spots) > 0 {
		refls := make([]Reflection, 0, len(cfg.Spots))
		for _, sc := range cfg.Spots {
			s, err := sc.Build()
			if err != nil {
				return err
			}
			refls = append(refls, s)
		}
		stats, err := r.CollectReflections(refls, cfg.Workers)
		if err != nil {
			return err
		}
		if stats.Unassigned > 0 {
			opsf("run %s: %d of %d spots fell outside every panel", r.RunID, stats.Unassigned, len(refls))
		}
		for _, lid := range r.Leaves(r.Root()) {
			if mean, ok := r.ShiftScore(lid, false); ok {
				sd, _ := r.ShiftScore(lid, true)
				diagf("run %s: panel %s: %d spots, shift mean %.3f sd %.3f",
					r.RunID, r.Panel(lid).Tag(), r.ReflectionCount(lid), mean, sd)
			}
		}
	}

	zmin, zmax := r.ZLimits(r.Root())
	diagf("run %s: z limits %.2f to %.2f mm", r.RunID, zmin*r.MMPerPixel(), zmax*r.MMPerPixel())
	if cfg.Wavelength > 0 {
		best, worst := r.ResolutionLimits(r.Root(), cfg.Wavelength)
		diagf("run %s: corner resolution %.3f to %.3f", r.RunID, best, worst)
	}

	if Debug {
		raysStats()
	}

	if cfg.GeometryOut != "" {
		f, err := os.Create(cfg.GeometryOut)
		if err != nil {
			return err
		}
		if err := r.WriteGeometry(f); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		diagf("run %s: saved geometry: %s", r.RunID, cfg.GeometryOut)
	}
	return nil
}
