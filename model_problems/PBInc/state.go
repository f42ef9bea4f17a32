package PBInc

import (
	"github.com/notargets/pbflow/utils"
)

// FaceState is the primitive flow state on one side of a face, a snapshot
// taken from node storage by the assembly loop. Velocity has NDim components:
// the momentum components are the only conserved unknowns in the
// pressure-based formulation, pressure is updated by a separate correction
// equation.
type FaceState struct {
	Pressure float64
	Velocity []float64
	Density  float64
}

// DissipationState carries the precomputed per-node quantities feeding the
// artificial dissipation of the central schemes.
type DissipationState struct {
	Sensor             float64   // Pressure switch value
	UndividedLaplacian []float64 // NVar components, second difference of the conserved momentum
	NumNeighbors       int
}

// FaceValues bundles everything a kernel consumes for one face. Normal is
// outward from side I toward side J and scaled by the face area.
type FaceValues struct {
	SI, SJ       FaceState
	DissI, DissJ DissipationState
	Normal       []float64
}

func NewFaceValues(nDim, nVar int) (fv *FaceValues) {
	fv = &FaceValues{
		SI:     FaceState{Velocity: make([]float64, nDim)},
		SJ:     FaceState{Velocity: make([]float64, nDim)},
		DissI:  DissipationState{UndividedLaplacian: make([]float64, nVar)},
		DissJ:  DissipationState{UndividedLaplacian: make([]float64, nVar)},
		Normal: make([]float64, nDim),
	}
	return
}

// FluxResult receives one face evaluation. JacI and JacJ are written only
// when the kernel runs in implicit mode and hold stale values otherwise.
type FluxResult struct {
	Residual   []float64
	JacI, JacJ utils.Matrix
}

func NewFluxResult(nVar int) (fr *FluxResult) {
	fr = &FluxResult{
		Residual: make([]float64, nVar),
		JacI:     utils.NewMatrix(nVar, nVar),
		JacJ:     utils.NewMatrix(nVar, nVar),
	}
	return
}
