package utils

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/blas/blas64"

	"gonum.org/v1/gonum/mat"
)

type Matrix struct {
	M *mat.Dense
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var m *mat.Dense
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NewMatrix nr,nc = %v,%v, len(data[0]) = %v", nr, nc, len(dataO[0]))
			panic(err)
		}
		m = mat.NewDense(nr, nc, dataO[0])
	} else {
		m = mat.NewDense(nr, nc, make([]float64, nr*nc))
	}
	R = Matrix{m}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m Matrix) Dims() (r, c int)          { return m.M.Dims() }
func (m Matrix) At(i, j int) float64       { return m.M.At(i, j) }
func (m Matrix) T() mat.Matrix             { return m.M.T() }
func (m Matrix) RawMatrix() blas64.General { return m.M.RawMatrix() }

func (m Matrix) Data() []float64 { return m.M.RawMatrix().Data }

func (m Matrix) Set(i, j int, val float64) Matrix { // Changes receiver
	m.M.Set(i, j, val)
	return m
}

func (m Matrix) AddAt(i, j int, val float64) Matrix { // Changes receiver
	m.M.Set(i, j, m.M.At(i, j)+val)
	return m
}

func (m Matrix) Zero() Matrix { // Changes receiver
	var (
		data = m.Data()
	)
	for i := range data {
		data[i] = 0.
	}
	return m
}

func (m Matrix) Scale(a float64) Matrix { // Changes receiver
	m.M.Scale(a, m.M)
	return m
}

func (m Matrix) Add(A Matrix) Matrix { // Changes receiver
	var (
		data  = m.Data()
		dataA = A.Data()
	)
	for i, val := range dataA {
		data[i] += val
	}
	return m
}

func (m Matrix) Copy() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
		data   = m.Data()
		dataR  = make([]float64, nr*nc)
	)
	copy(dataR, data)
	R = NewMatrix(nr, nc, dataR)
	return
}

func (m Matrix) Print(msgI ...string) (o string) {
	var (
		sb     strings.Builder
		nr, nc = m.Dims()
	)
	if len(msgI) != 0 {
		sb.WriteString(fmt.Sprintf("%s =\n", msgI[0]))
	}
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			sb.WriteString(fmt.Sprintf("%10.6f ", m.At(i, j)))
		}
		sb.WriteString("\n")
	}
	o = sb.String()
	return
}
