package PBInc

import (
	"fmt"
	"strings"

	"github.com/notargets/pbflow/utils"
)

type SchemeKind uint

const (
	UpwindScheme SchemeKind = iota
	JSTScheme
	LaxScheme
	PressureSourceScheme
)

var (
	SchemeNames = map[string]SchemeKind{
		"upwind":         UpwindScheme,
		"jst":            JSTScheme,
		"lax":            LaxScheme,
		"pressureSource": PressureSourceScheme,
	}
	SchemePrintNames = []string{"Upwind", "JST", "Lax", "Pressure Source"}
)

func (sk SchemeKind) Print() (txt string) {
	txt = SchemePrintNames[sk]
	return
}

func NewSchemeKind(label string) (sk SchemeKind) {
	var (
		ok  bool
		err error
	)
	label = strings.ToLower(label)
	if label == "pressuresource" {
		label = "pressureSource"
	}
	if sk, ok = SchemeNames[label]; !ok {
		err = fmt.Errorf("unable to use scheme named %s", label)
		panic(err)
	}
	return
}

// SchemeParams are the per-scheme constants, read once from the problem
// configuration and immutable for the kernel's lifetime.
type SchemeParams struct {
	Implicit     bool
	GravityForce bool
	Froude       float64
	Kappa2       float64 // 2nd order dissipation coefficient (JST)
	Kappa4       float64 // 4th order dissipation coefficient (JST)
	Kappa0       float64 // 1st order dissipation coefficient (Lax)
}

// FluxKernel evaluates the face flux and its linearization for one scheme of
// the pressure-based incompressible formulation. The scratch slices are
// overwritten on every call, so one instance must not be shared across
// concurrent callers - give each worker its own kernel.
type FluxKernel struct {
	NDim, NVar int
	Kind       SchemeKind
	SchemeParams
	paramP float64 // Pressure switch blending exponent

	velI, velJ, meanVel []float64
	diffU, diffLapl     []float64
	projFlux            []float64
}

// NewFluxKernel allocates the per-instance scratch storage. nVar must equal
// nDim: the conserved unknowns are the momentum components only.
func NewFluxKernel(nDim, nVar int, kind SchemeKind, sp SchemeParams) (fk *FluxKernel) {
	if nVar != nDim {
		err := fmt.Errorf("nVar must equal nDim for the pressure-based formulation, got nVar=%d, nDim=%d", nVar, nDim)
		panic(err)
	}
	fk = &FluxKernel{
		NDim:         nDim,
		NVar:         nVar,
		Kind:         kind,
		SchemeParams: sp,
		paramP:       0.3,
		velI:         make([]float64, nDim),
		velJ:         make([]float64, nDim),
		meanVel:      make([]float64, nDim),
		diffU:        make([]float64, nVar),
		diffLapl:     make([]float64, nVar),
		projFlux:     make([]float64, nVar),
	}
	return
}

// Evaluate computes the residual contribution of one face, plus the two side
// Jacobians when running implicit. The scheme set is closed, so dispatch is
// an exhaustive switch rather than dynamic dispatch in the per-face hot loop.
// Negative densities or pressures are the caller's domain-validity problem
// and pass through unguarded.
func (fk *FluxKernel) Evaluate(face *FaceValues, out *FluxResult) {
	switch fk.Kind {
	case UpwindScheme:
		fk.upwindResidual(face, out)
	case JSTScheme:
		fk.jstResidual(face, out)
	case LaxScheme:
		fk.laxResidual(face, out)
	case PressureSourceScheme:
		fk.pressureSourceResidual(face, out)
	default:
		err := fmt.Errorf("unknown scheme kind %d", fk.Kind)
		panic(err)
	}
}

// ProjectedFlux writes the inviscid momentum flux projected onto the face
// normal: flux[k] = density*velocity[k]*(velocity dot normal) +
// pressure*normal[k].
func ProjectedFlux(density, pressure float64, velocity, normal, flux []float64) {
	var (
		massFlux float64
	)
	for iDim := range normal {
		massFlux += velocity[iDim] * normal[iDim]
	}
	massFlux *= density
	for iVar := range flux {
		flux[iVar] = massFlux*velocity[iVar] + pressure*normal[iVar]
	}
}

// ProjectedFluxJacobian writes the linearization of ProjectedFlux with
// respect to the conserved momentum components, scaled by scale (0.5 for the
// symmetric central contribution, 1.0 one-sided for upwinding):
// J[k][m] = scale * (delta_km*(velocity dot normal) + velocity[k]*normal[m]).
func ProjectedFluxJacobian(velocity, normal []float64, scale float64, jac utils.Matrix) {
	var (
		projVel float64
		nVar    = len(velocity)
	)
	for iDim := range normal {
		projVel += velocity[iDim] * normal[iDim]
	}
	for iVar := 0; iVar < nVar; iVar++ {
		for jVar := 0; jVar < nVar; jVar++ {
			val := scale * velocity[iVar] * normal[jVar]
			if iVar == jVar {
				val += scale * projVel
			}
			jac.Set(iVar, jVar, val)
		}
	}
}

// upwindResidual is first order upwinding on the sign of the mean mass flux
// across the face. No eigen-decomposition: the incompressible momentum system
// upwinds on the scalar mass flux alone. A mass flux of exactly zero takes
// the j side as donor.
func (fk *FluxKernel) upwindResidual(face *FaceValues, out *FluxResult) {
	var (
		normal      = face.Normal
		meanDensity = 0.5 * (face.SI.Density + face.SJ.Density)
		faceFlux    float64
	)
	for iDim := 0; iDim < fk.NDim; iDim++ {
		fk.velI[iDim] = face.SI.Velocity[iDim]
		fk.velJ[iDim] = face.SJ.Velocity[iDim]
		fk.meanVel[iDim] = 0.5 * (fk.velI[iDim] + fk.velJ[iDim])
		faceFlux += meanDensity * fk.meanVel[iDim] * normal[iDim]
	}

	if faceFlux > 0 {
		for iVar := 0; iVar < fk.NVar; iVar++ {
			out.Residual[iVar] = faceFlux * fk.velI[iVar]
		}
	} else {
		for iVar := 0; iVar < fk.NVar; iVar++ {
			out.Residual[iVar] = faceFlux * fk.velJ[iVar]
		}
	}

	if fk.Implicit {
		out.JacI.Zero()
		out.JacJ.Zero()
		if faceFlux > 0 {
			ProjectedFluxJacobian(fk.velI, normal, 1.0, out.JacI)
		} else {
			ProjectedFluxJacobian(fk.velJ, normal, 1.0, out.JacJ)
		}
	}
}

// pressureSourceResidual contributes the mean pressure times the face normal,
// the pressure gradient source of the segregated momentum equations. Always
// explicit - no Jacobian is produced.
func (fk *FluxKernel) pressureSourceResidual(face *FaceValues, out *FluxResult) {
	var (
		meanPressure = 0.5 * (face.SI.Pressure + face.SJ.Pressure)
	)
	for iDim := 0; iDim < fk.NDim; iDim++ {
		out.Residual[iDim] = meanPressure * face.Normal[iDim]
	}
}
