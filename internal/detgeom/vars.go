package detgeom

var (
	Debug = false // set to true to record ray trace categories
	// Compile time checks that the adapters satisfy the reflection interfaces.
	_ Reflection = (*Spot)(nil)
	_ Shifter    = (*Spot)(nil)
	_ Rayed      = (*Spot)(nil)
)
