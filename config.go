package sceneport

// TessellationLevel controls how many straight segments a curved line
// element is divided into when geometry is sampled for export.
type TessellationLevel string

const (
	TessellationLow    TessellationLevel = "low"
	TessellationMedium TessellationLevel = "medium"
	TessellationHigh   TessellationLevel = "high"
)

const (
	lowDivisions    = 1
	mediumDivisions = 2
	highDivisions   = 4
)

// Divisions resolves a level into a segment count per element.
// Unknown levels fall back to low.
func (tl TessellationLevel) Divisions() int {
	switch tl {
	case TessellationMedium:
		return mediumDivisions
	case TessellationHigh:
		return highDivisions
	default:
		return lowDivisions
	}
}

type Config struct {
	Tessellation      TessellationLevel
	ModelCacheBytes   uint64
	DisableModelCache bool
}

func (cfg *Config) normalize() {
	if cfg.Tessellation == "" {
		cfg.Tessellation = TessellationLow
	}
}
