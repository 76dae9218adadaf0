package worldgen

import "github.com/talgya/hexgen/internal/world"

// Progress is one event on the generation stream. Exactly one terminal
// event arrives per run: either Completed with a World, or Err set.
// Cancelled runs end without a terminal event; the channel just closes.
type Progress struct {
	Step      string
	Fraction  float64
	Completed bool
	World     *world.World
	Err       error
}

// Milestone fractions, in emission order.
const (
	fracProvinces = 0.10
	fracErosion   = 0.25
	fracClimate   = 0.40
	fracRivers    = 0.50
	fracMesh      = 0.70
	fracEntities  = 0.85
	fracOverlays  = 0.95
	fracComplete  = 1.0
)

const (
	StepProvinces = "Provinces"
	StepErosion   = "Erosion"
	StepClimate   = "Climate"
	StepRivers    = "Rivers"
	StepMesh      = "Mesh"
	StepEntities  = "Entities"
	StepOverlays  = "Overlays"
	StepComplete  = "Complete"
)
