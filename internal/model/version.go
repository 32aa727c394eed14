package model

// Version constants for the projection output format and the engine.
const (
	// FormatVersion is the projection output format version.
	FormatVersion = "1"

	// EngineVersion is the patternspace engine version.
	EngineVersion = "0.1.0"
)
