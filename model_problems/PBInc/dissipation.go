package PBInc

import (
	"math"
)

/*
	Central schemes: the inviscid flux of the arithmetic mean state plus a
	scalar artificial dissipation scaled by the face spectral radius. JST
	blends 2nd and 4th differences with a pressure switch, Lax uses a single
	1st order coefficient. Both share the stretching factor machinery that
	limits dissipation on stretched and irregular meshes.

	The blending exponents are computed from the locally evaluated spectral
	radii of the two sides. The reference implementation reads a pair of
	members that are never assigned in the corresponding routine; the locally
	computed radii are the intended inputs and the only ones that leave the
	stretching factor well defined.
*/

// jstResidual is the central flux with blended 2nd/4th difference
// Jameson-Schmidt-Turkel dissipation.
func (fk *FluxKernel) jstResidual(face *FaceValues, out *FluxResult) {
	var (
		normal       = face.Normal
		meanDensity  = 0.5 * (face.SI.Density + face.SJ.Density)
		meanPressure = 0.5 * (face.SI.Pressure + face.SJ.Pressure)
	)
	for iDim := 0; iDim < fk.NDim; iDim++ {
		fk.velI[iDim] = face.SI.Velocity[iDim]
		fk.velJ[iDim] = face.SJ.Velocity[iDim]
		fk.meanVel[iDim] = 0.5 * (fk.velI[iDim] + fk.velJ[iDim])
	}

	ProjectedFlux(meanDensity, meanPressure, fk.meanVel, normal, fk.projFlux)
	for iVar := 0; iVar < fk.NVar; iVar++ {
		out.Residual[iVar] = fk.projFlux[iVar]
	}

	if fk.Implicit {
		ProjectedFluxJacobian(fk.meanVel, normal, 0.5, out.JacI)
		for iVar := 0; iVar < fk.NVar; iVar++ {
			for jVar := 0; jVar < fk.NVar; jVar++ {
				out.JacJ.Set(iVar, jVar, out.JacI.At(iVar, jVar))
			}
		}
	}

	// Differences of the conserved momentum and of the undivided Laplacians
	for iVar := 0; iVar < fk.NVar; iVar++ {
		fk.diffU[iVar] = face.SI.Density*fk.velI[iVar] - face.SJ.Density*fk.velJ[iVar]
		fk.diffLapl[iVar] = face.DissI.UndividedLaplacian[iVar] - face.DissJ.UndividedLaplacian[iVar]
	}

	lambdaI, lambdaJ, meanLambda := fk.spectralRadii(normal)
	if meanLambda == 0. {
		// Zero relative face velocity on both sides: the dissipation carries
		// a meanLambda factor and vanishes, skip it and leave the central
		// Jacobians untouched
		return
	}
	stretch := fk.stretchingFactor(lambdaI, lambdaJ, meanLambda)

	var (
		nI  = float64(face.DissI.NumNeighbors)
		nJ  = float64(face.DissJ.NumNeighbors)
		sc2 = 3. * (nI + nJ) / (nI * nJ)
		sc4 = sc2 * sc2 / 4.
	)
	eps2 := fk.Kappa2 * 0.5 * (face.DissI.Sensor + face.DissJ.Sensor) * sc2
	eps4 := math.Max(0., fk.Kappa4-eps2) * sc4

	for iVar := 0; iVar < fk.NVar; iVar++ {
		out.Residual[iVar] += (eps2*fk.diffU[iVar] - eps4*fk.diffLapl[iVar]) * stretch * meanLambda
	}

	if fk.Implicit {
		// Diagonal-only linearization of the dissipation, the off diagonal
		// sensitivity is dropped for implicit efficiency
		cte0 := (eps2 + eps4*(nI+1.)) * stretch * meanLambda
		cte1 := (eps2 + eps4*(nJ+1.)) * stretch * meanLambda
		for iVar := 0; iVar < fk.NVar; iVar++ {
			out.JacI.AddAt(iVar, iVar, cte0)
			out.JacJ.AddAt(iVar, iVar, -cte1)
		}
	}
}

// laxResidual is the central flux with 1st order Lax-type scalar dissipation.
func (fk *FluxKernel) laxResidual(face *FaceValues, out *FluxResult) {
	var (
		normal       = face.Normal
		meanDensity  = 0.5 * (face.SI.Density + face.SJ.Density)
		meanPressure = 0.5 * (face.SI.Pressure + face.SJ.Pressure)
	)
	for iDim := 0; iDim < fk.NDim; iDim++ {
		fk.velI[iDim] = face.SI.Velocity[iDim]
		fk.velJ[iDim] = face.SJ.Velocity[iDim]
		fk.meanVel[iDim] = 0.5 * (fk.velI[iDim] + fk.velJ[iDim])
	}

	ProjectedFlux(meanDensity, meanPressure, fk.meanVel, normal, fk.projFlux)
	for iVar := 0; iVar < fk.NVar; iVar++ {
		out.Residual[iVar] = fk.projFlux[iVar]
	}

	if fk.Implicit {
		ProjectedFluxJacobian(fk.meanVel, normal, 0.5, out.JacI)
		for iVar := 0; iVar < fk.NVar; iVar++ {
			for jVar := 0; jVar < fk.NVar; jVar++ {
				out.JacJ.Set(iVar, jVar, out.JacI.At(iVar, jVar))
			}
		}
	}

	for iVar := 0; iVar < fk.NVar; iVar++ {
		fk.diffU[iVar] = face.SI.Density*fk.velI[iVar] - face.SJ.Density*fk.velJ[iVar]
	}

	lambdaI, lambdaJ, meanLambda := fk.spectralRadii(normal)
	if meanLambda == 0. {
		return
	}
	stretch := fk.stretchingFactor(lambdaI, lambdaJ, meanLambda)

	var (
		nI  = float64(face.DissI.NumNeighbors)
		nJ  = float64(face.DissJ.NumNeighbors)
		sc0 = 3. * (nI + nJ) / (nI * nJ)
	)
	eps0 := fk.Kappa0 * sc0 * float64(fk.NDim) / 3.

	for iVar := 0; iVar < fk.NVar; iVar++ {
		out.Residual[iVar] += eps0 * fk.diffU[iVar] * stretch * meanLambda
	}

	if fk.Implicit {
		for iVar := 0; iVar < fk.NVar; iVar++ {
			out.JacI.AddAt(iVar, iVar, eps0*stretch*meanLambda)
			out.JacJ.AddAt(iVar, iVar, -eps0*stretch*meanLambda)
		}
	}
}

// spectralRadii evaluates the local convective spectral radius of each side
// over the area-scaled normal. The scratch velI/velJ must already be loaded.
func (fk *FluxKernel) spectralRadii(normal []float64) (lambdaI, lambdaJ, meanLambda float64) {
	var (
		projVelI, projVelJ float64
	)
	for iDim := 0; iDim < fk.NDim; iDim++ {
		projVelI += fk.velI[iDim] * normal[iDim]
		projVelJ += fk.velJ[iDim] * normal[iDim]
	}
	lambdaI = math.Abs(2. * projVelI)
	lambdaJ = math.Abs(2. * projVelJ)
	meanLambda = 0.5 * (lambdaI + lambdaJ)
	return
}

func (fk *FluxKernel) stretchingFactor(lambdaI, lambdaJ, meanLambda float64) (stretch float64) {
	var (
		phiI = math.Pow(lambdaI/(4.*meanLambda), fk.paramP)
		phiJ = math.Pow(lambdaJ/(4.*meanLambda), fk.paramP)
	)
	stretch = 4. * phiI * phiJ / (phiI + phiJ)
	return
}
