package detgeom

const (
	DefaultMMPerPixel = 0.11
	// Basis vectors must be within this distance of unit length.
	BasisTolerance = 0.05
	// Matrices closer than this to singular are rejected.
	SingularTolerance = 1e-12
	CoverageSamples   = 100_000
	RootTag           = "master"
	GeometryIndent    = "  "
	// hot-loop constants reused by the ray tracer
	parallelEps = 1e-12
	minRayT     = 1e-9
)
