package PBInc

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/pbflow/utils"
)

// Edge is the shared face between two control volumes. Normal points from
// NodeI toward NodeJ and is scaled by the face area.
type Edge struct {
	NodeI, NodeJ int
	Normal       []float64
}

// EdgeMesh is the minimal dual-mesh connectivity the assembly loop needs:
// edges with area-scaled normals plus per-node neighbor counts feeding the
// dissipation scaling.
type EdgeMesh struct {
	NDim         int
	NumNodes     int
	Edges        []Edge
	NumNeighbors []int
}

// NewChannelMesh builds a unit-spaced structured nx x ny grid of control
// volumes with axis-aligned faces, the demo geometry for driving the kernels.
func NewChannelMesh(nx, ny int) (em *EdgeMesh) {
	if nx < 2 || ny < 2 {
		err := fmt.Errorf("channel mesh needs at least 2x2 nodes, got %dx%d", nx, ny)
		panic(err)
	}
	em = &EdgeMesh{
		NDim:         2,
		NumNodes:     nx * ny,
		NumNeighbors: make([]int, nx*ny),
	}
	nodeID := func(i, j int) int { return i + j*nx }
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			if i+1 < nx {
				em.Edges = append(em.Edges, Edge{nodeID(i, j), nodeID(i+1, j), []float64{1, 0}})
			}
			if j+1 < ny {
				em.Edges = append(em.Edges, Edge{nodeID(i, j), nodeID(i, j+1), []float64{0, 1}})
			}
		}
	}
	for _, e := range em.Edges {
		em.NumNeighbors[e.NodeI]++
		em.NumNeighbors[e.NodeJ]++
	}
	return
}

// FlowField is the per-node state consumed by the assembly sweep: primitive
// variables plus the precomputed dissipation sensor quantities.
type FlowField struct {
	Pressure           []float64
	Density            []float64
	Velocity           utils.Matrix // NDim x NumNodes
	Sensor             []float64
	UndividedLaplacian utils.Matrix // NVar x NumNodes
}

func NewFlowField(nDim, nVar, numNodes int) (ff *FlowField) {
	ff = &FlowField{
		Pressure:           make([]float64, numNodes),
		Density:            make([]float64, numNodes),
		Velocity:           utils.NewMatrix(nDim, numNodes),
		Sensor:             make([]float64, numNodes),
		UndividedLaplacian: utils.NewMatrix(nVar, numNodes),
	}
	return
}

// Assembler sweeps the mesh edges with one scheme, accumulating per-node
// residuals and, in implicit mode, the sparse block system matrix. Edges are
// sharded across workers, each worker owns its own kernel instance and
// partial storage, partials are reduced after the parallel fan (the kernels'
// scratch buffers are not safe to share).
type Assembler struct {
	Mesh    *EdgeMesh
	NVar    int
	NPar    int
	kernels []*FluxKernel
	shards  [][]Edge
}

func NewAssembler(mesh *EdgeMesh, kind SchemeKind, sp SchemeParams, nPar int) (asm *Assembler) {
	if nPar < 1 {
		nPar = 1
	}
	if nPar > len(mesh.Edges) {
		nPar = len(mesh.Edges)
	}
	asm = &Assembler{
		Mesh:    mesh,
		NVar:    mesh.NDim,
		NPar:    nPar,
		kernels: make([]*FluxKernel, nPar),
		shards:  make([][]Edge, nPar),
	}
	for np := 0; np < nPar; np++ {
		asm.kernels[np] = NewFluxKernel(mesh.NDim, mesh.NDim, kind, sp)
	}
	// Contiguous edge ranges, remainder into the last shard
	bucket := len(mesh.Edges) / nPar
	for np := 0; np < nPar; np++ {
		lo, hi := np*bucket, (np+1)*bucket
		if np == nPar-1 {
			hi = len(mesh.Edges)
		}
		asm.shards[np] = mesh.Edges[lo:hi]
	}
	return
}

// Assemble runs one residual sweep. The returned residual is NVar x NumNodes;
// sysM is the NVar-blocked system matrix, populated only in implicit mode.
func (asm *Assembler) Assemble(field *FlowField) (residual utils.Matrix, sysM utils.DOK) {
	var (
		wg       = sync.WaitGroup{}
		nNodes   = asm.Mesh.NumNodes
		nVar     = asm.NVar
		partial  = make([]utils.Matrix, asm.NPar)
		partialM = make([]utils.DOK, asm.NPar)
		implicit = asm.kernels[0].Implicit
	)
	for np := 0; np < asm.NPar; np++ {
		partial[np] = utils.NewMatrix(nVar, nNodes)
		if implicit {
			partialM[np] = utils.NewDOK(nVar*nNodes, nVar*nNodes)
		}
		wg.Add(1)
		go func(np int) {
			asm.assembleShard(np, field, partial[np], partialM[np])
			wg.Done()
		}(np)
	}
	wg.Wait()

	residual = utils.NewMatrix(nVar, nNodes)
	if implicit {
		sysM = utils.NewDOK(nVar*nNodes, nVar*nNodes)
	}
	for np := 0; np < asm.NPar; np++ {
		residual.Add(partial[np])
		if implicit {
			partialM[np].M.DoNonZero(func(i, j int, v float64) {
				sysM.Add(i, j, v)
			})
		}
	}
	return
}

func (asm *Assembler) assembleShard(np int, field *FlowField, res utils.Matrix, sysM utils.DOK) {
	var (
		fk   = asm.kernels[np]
		face = NewFaceValues(fk.NDim, fk.NVar)
		out  = NewFluxResult(fk.NVar)
	)
	for _, e := range asm.shards[np] {
		asm.loadFace(field, e, face)
		fk.Evaluate(face, out)
		for iVar := 0; iVar < fk.NVar; iVar++ {
			res.AddAt(iVar, e.NodeI, out.Residual[iVar])
			res.AddAt(iVar, e.NodeJ, -out.Residual[iVar])
		}
		if fk.Implicit && fk.Kind != PressureSourceScheme {
			iRow, jRow := e.NodeI*fk.NVar, e.NodeJ*fk.NVar
			for iVar := 0; iVar < fk.NVar; iVar++ {
				for jVar := 0; jVar < fk.NVar; jVar++ {
					jacI, jacJ := out.JacI.At(iVar, jVar), out.JacJ.At(iVar, jVar)
					sysM.Add(iRow+iVar, iRow+jVar, jacI)
					sysM.Add(iRow+iVar, jRow+jVar, jacJ)
					sysM.Add(jRow+iVar, iRow+jVar, -jacI)
					sysM.Add(jRow+iVar, jRow+jVar, -jacJ)
				}
			}
		}
	}
}

func (asm *Assembler) loadFace(field *FlowField, e Edge, face *FaceValues) {
	var (
		mesh = asm.Mesh
	)
	face.SI.Pressure, face.SJ.Pressure = field.Pressure[e.NodeI], field.Pressure[e.NodeJ]
	face.SI.Density, face.SJ.Density = field.Density[e.NodeI], field.Density[e.NodeJ]
	for iDim := 0; iDim < mesh.NDim; iDim++ {
		face.SI.Velocity[iDim] = field.Velocity.At(iDim, e.NodeI)
		face.SJ.Velocity[iDim] = field.Velocity.At(iDim, e.NodeJ)
		face.Normal[iDim] = e.Normal[iDim]
	}
	face.DissI.Sensor, face.DissJ.Sensor = field.Sensor[e.NodeI], field.Sensor[e.NodeJ]
	for iVar := 0; iVar < asm.NVar; iVar++ {
		face.DissI.UndividedLaplacian[iVar] = field.UndividedLaplacian.At(iVar, e.NodeI)
		face.DissJ.UndividedLaplacian[iVar] = field.UndividedLaplacian.At(iVar, e.NodeJ)
	}
	face.DissI.NumNeighbors = mesh.NumNeighbors[e.NodeI]
	face.DissJ.NumNeighbors = mesh.NumNeighbors[e.NodeJ]
}

// ResidualNorm is the L2 norm of the accumulated residual.
func ResidualNorm(residual utils.Matrix) (norm float64) {
	norm = floats.Norm(residual.Data(), 2)
	return
}
