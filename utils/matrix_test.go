package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrix(t *testing.T) {
	M := NewMatrix(2, 2, []float64{1, 2, 3, 4})
	assert.Equal(t, 3., M.At(1, 0))
	M.AddAt(1, 0, 0.5)
	assert.Equal(t, 3.5, M.At(1, 0))
	R := M.Copy()
	M.Zero()
	assert.Equal(t, 0., M.At(1, 0))
	assert.Equal(t, 3.5, R.At(1, 0))
	R.Scale(2.)
	assert.Equal(t, 7., R.At(1, 0))
	R.Add(NewMatrix(2, 2, []float64{1, 1, 1, 1}))
	assert.Equal(t, 8., R.At(1, 0))
	assert.Panics(t, func() { NewMatrix(2, 2, []float64{1, 2, 3}) })
}

func TestDOK(t *testing.T) {
	D := NewDOK(4, 4)
	D.Set(0, 1, 2.)
	D.Add(0, 1, 1.)
	assert.Equal(t, 3., D.At(0, 1))
	assert.Equal(t, 1, D.NNZ())
	csr := D.ToCSR()
	assert.Equal(t, 3., csr.At(0, 1))
}
