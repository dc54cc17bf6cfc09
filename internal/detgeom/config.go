package detgeom

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/geo/r3"
	"gopkg.in/yaml.v3"
)

// SpotCfg is one observed spot listed in the run config. Ray is the
// diffracted direction; leave it empty to locate the spot by pixel.
type SpotCfg struct {
	X   float64   `json:"x" yaml:"x"`
	Y   float64   `json:"y" yaml:"y"`
	DX  float64   `json:"dx,omitempty" yaml:"dx,omitempty"`
	DY  float64   `json:"dy,omitempty" yaml:"dy,omitempty"`
	Ray []float64 `json:"ray,omitempty" yaml:"ray,omitempty"`
}

// Config is the run configuration. An empty DetectorList disables
// detector-tree mode.
type Config struct {
	MMPerPixel      float64   `json:"mmPerPixel" yaml:"mmPerPixel"`
	DetectorList    string    `json:"detectorList" yaml:"detectorList"`
	Distance        float64   `json:"distance,omitempty" yaml:"distance,omitempty"`
	BeamX           float64   `json:"beamX,omitempty" yaml:"beamX,omitempty"`
	BeamY           float64   `json:"beamY,omitempty" yaml:"beamY,omitempty"`
	Wavelength      float64   `json:"wavelength,omitempty" yaml:"wavelength,omitempty"`
	Workers         int       `json:"workers,omitempty" yaml:"workers,omitempty"`
	CoverageSamples int       `json:"coverageSamples,omitempty" yaml:"coverageSamples,omitempty"`
	GeometryOut     string    `json:"geometryOut,omitempty" yaml:"geometryOut,omitempty"`
	Spots           []SpotCfg `json:"spots,omitempty" yaml:"spots,omitempty"`
}

// Build turns the config entry into a Spot.
func (c SpotCfg) Build() (*Spot, error) {
	s := &Spot{X: c.X, Y: c.Y, DX: c.DX, DY: c.DY}
	switch len(c.Ray) {
	case 0:
	case 3:
		s.Direction = r3.Vector{X: c.Ray[0], Y: c.Ray[1], Z: c.Ray[2]}
	default:
		return nil, fmt.Errorf("spot (%g, %g): ray needs 3 components, got %d", c.X, c.Y, len(c.Ray))
	}
	return s, nil
}

// Active reports whether the config enables detector-tree mode.
func (c *Config) Active() bool { return c.DetectorList != "" }

// Options converts the config into registry options.
func (c *Config) Options() Options {
	return Options{MMPerPixel: c.MMPerPixel, Active: c.Active()}
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	// Defaults / validation
	if cfg.MMPerPixel <= 0 {
		cfg.MMPerPixel = DefaultMMPerPixel
	}
	if cfg.CoverageSamples <= 0 {
		cfg.CoverageSamples = CoverageSamples
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("config %s: negative workers %d", path, cfg.Workers)
	}
	if cfg.Wavelength < 0 {
		return nil, fmt.Errorf("config %s: negative wavelength %g", path, cfg.Wavelength)
	}
	if cfg.DetectorList != "" && !filepath.IsAbs(cfg.DetectorList) {
		cfg.DetectorList = filepath.Join(filepath.Dir(path), cfg.DetectorList)
	}
	diagf("loaded config from %s: mm/pixel=%g detectorList=%q workers=%d samples=%d",
		path, cfg.MMPerPixel, cfg.DetectorList, cfg.Workers, cfg.CoverageSamples)
	return &cfg, nil
}

// NewRegistryFromConfig builds a registry and, when detector-tree mode is
// on, parses the geometry file into it. A positive Distance overrides the
// root midpoint with the beam centre and distance.
func NewRegistryFromConfig(cfg *Config) (*Registry, error) {
	r := NewRegistry(cfg.Options())
	if !r.Active() {
		return r, nil
	}
	f, err := os.Open(cfg.DetectorList)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	if err := r.ParseGeometry(f); err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.DetectorList, err)
	}
	if cfg.Distance > 0 {
		root := r.Root()
		mid := [3]float64{-cfg.BeamX, -cfg.BeamY, cfg.Distance / r.MMPerPixel()}
		for i, kind := range []ParamKind{MidpointX, MidpointY, MidpointZ} {
			if err := r.SetParam(root, kind, mid[i]); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}
