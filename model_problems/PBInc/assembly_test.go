package PBInc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testField(mesh *EdgeMesh, nx, ny int) (field *FlowField) {
	field = NewFlowField(mesh.NDim, mesh.NDim, mesh.NumNodes)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			var (
				node = i + j*nx
				y    = float64(j) / float64(ny-1)
			)
			field.Pressure[node] = 1. - 0.1*float64(i)/float64(nx-1)
			field.Density[node] = 1.
			field.Velocity.Set(0, node, 4.*y*(1.-y))
			field.Velocity.Set(1, node, 0.02*float64(i))
			field.Sensor[node] = 0.05
			field.UndividedLaplacian.Set(0, node, 0.01*float64(i-j))
		}
	}
	return
}

func TestChannelMesh(t *testing.T) {
	var (
		nx, ny = 5, 4
		mesh   = NewChannelMesh(nx, ny)
	)
	assert.Equal(t, 20, mesh.NumNodes)
	// (nx-1)*ny horizontal + nx*(ny-1) vertical faces
	assert.Equal(t, 4*4+5*3, len(mesh.Edges))
	// Corner has 2 neighbors, interior has 4
	assert.Equal(t, 2, mesh.NumNeighbors[0])
	assert.Equal(t, 4, mesh.NumNeighbors[1+nx])
	assert.Panics(t, func() { NewChannelMesh(1, 4) })
}

// Every edge adds its residual to node i and subtracts it from node j, so the
// component sums over all nodes telescope to exactly zero.
func TestAssemblyConservation(t *testing.T) {
	var (
		nx, ny = 8, 6
		mesh   = NewChannelMesh(nx, ny)
		field  = testField(mesh, nx, ny)
	)
	for _, kind := range []SchemeKind{UpwindScheme, JSTScheme, LaxScheme, PressureSourceScheme} {
		asm := NewAssembler(mesh, kind, testParams(), 3)
		residual, _ := asm.Assemble(field)
		for iVar := 0; iVar < mesh.NDim; iVar++ {
			var sum float64
			for node := 0; node < mesh.NumNodes; node++ {
				sum += residual.At(iVar, node)
			}
			assert.True(t, near(0., sum, 1.e-12), kind.Print())
		}
	}
}

// The sharded parallel sweep must agree with a single worker up to the
// reduction roundoff.
func TestAssemblyParallelAgreement(t *testing.T) {
	var (
		nx, ny = 10, 7
		mesh   = NewChannelMesh(nx, ny)
		field  = testField(mesh, nx, ny)
	)
	for _, kind := range []SchemeKind{UpwindScheme, JSTScheme, LaxScheme} {
		serial := NewAssembler(mesh, kind, testParams(), 1)
		parallel := NewAssembler(mesh, kind, testParams(), 5)
		res1, sys1 := serial.Assemble(field)
		resN, sysN := parallel.Assemble(field)
		assert.True(t, nearVec(res1.Data(), resN.Data(), 1.e-12), kind.Print())
		assert.Equal(t, sys1.NNZ(), sysN.NNZ())
		sys1.M.DoNonZero(func(i, j int, v float64) {
			assert.True(t, near(v, sysN.At(i, j), 1.e-12))
		})
	}
}

// Implicit blocks: the i row gets +JacI/+JacJ, the j row the negation, so
// each block column of the assembled matrix sums to zero as well.
func TestAssemblyImplicitBlocks(t *testing.T) {
	var (
		nx, ny = 4, 3
		mesh   = NewChannelMesh(nx, ny)
		field  = testField(mesh, nx, ny)
		asm    = NewAssembler(mesh, JSTScheme, testParams(), 2)
	)
	_, sysM := asm.Assemble(field)
	assert.True(t, sysM.NNZ() > 0)
	nRows := mesh.NDim * mesh.NumNodes
	colSum := make([]float64, nRows)
	sysM.M.DoNonZero(func(i, j int, v float64) {
		colSum[j] += v
	})
	for j := 0; j < nRows; j++ {
		assert.True(t, near(0., colSum[j], 1.e-12))
	}
}

func TestAssemblyExplicitSkipsMatrix(t *testing.T) {
	var (
		mesh  = NewChannelMesh(4, 3)
		field = testField(mesh, 4, 3)
		sp    = testParams()
	)
	sp.Implicit = false
	asm := NewAssembler(mesh, LaxScheme, sp, 2)
	residual, sysM := asm.Assemble(field)
	assert.NotNil(t, residual.Data())
	assert.Nil(t, sysM.M)
}
