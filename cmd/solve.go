/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/pkg/profile"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/pbflow/InputParameters"
	"github.com/notargets/pbflow/model_problems/PBInc"
)

type SolveModel struct {
	ICFile     string
	Nx, Ny     int
	NPar       int
	CPUProfile bool
}

// SolveCmd represents the solve command
var SolveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Run one flux assembly sweep over the demo channel mesh",
	Long:  `Run one flux assembly sweep over the demo channel mesh, reporting residual norms per scheme`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
			sm  = &SolveModel{}
		)
		sm.ICFile = viper.GetString("inputConditionsFile")
		if sm.Nx, err = cmd.Flags().GetInt("nx"); err != nil {
			panic(err)
		}
		if sm.Ny, err = cmd.Flags().GetInt("ny"); err != nil {
			panic(err)
		}
		sm.NPar, _ = cmd.Flags().GetInt("parallel")
		sm.CPUProfile, _ = cmd.Flags().GetBool("profile")
		ip := processSolveInput(sm)
		RunSolve(sm, ip)
	},
}

func processSolveInput(sm *SolveModel) (fp *InputParameters.FlowParameters) {
	fp = InputParameters.NewFlowParameters()
	if len(sm.ICFile) == 0 {
		fmt.Printf("no input conditions file given, using defaults\n")
		return
	}
	data, err := ioutil.ReadFile(sm.ICFile)
	if err != nil {
		fmt.Printf("error: unable to read input conditions file %s\n", sm.ICFile)
		os.Exit(1)
	}
	if err = fp.Parse(data); err != nil {
		fmt.Printf("error parsing input conditions file: %s\n", err.Error())
		os.Exit(1)
	}
	return
}

func RunSolve(sm *SolveModel, fp *InputParameters.FlowParameters) {
	if sm.CPUProfile {
		defer profile.Start(profile.CPUProfile).Stop()
	}
	fp.Print()
	var (
		mesh = PBInc.NewChannelMesh(sm.Nx, sm.Ny)
		sp   = PBInc.SchemeParams{
			Implicit:     fp.ImplicitSolver,
			GravityForce: fp.GravityForce,
			Froude:       fp.Froude,
			Kappa2:       fp.Kappa2,
			Kappa4:       fp.Kappa4,
			Kappa0:       fp.Kappa0,
		}
		field = channelFlowField(mesh, sm.Nx, sm.Ny)
	)
	fmt.Printf("mesh: %d nodes, %d edges\n", mesh.NumNodes, len(mesh.Edges))
	for _, kind := range []PBInc.SchemeKind{PBInc.NewSchemeKind(fp.Scheme), PBInc.PressureSourceScheme} {
		asm := PBInc.NewAssembler(mesh, kind, sp, sm.NPar)
		residual, sysM := asm.Assemble(field)
		fmt.Printf("%-16s residual L2 norm = %12.6e", kind.Print(), PBInc.ResidualNorm(residual))
		if sp.Implicit && kind != PBInc.PressureSourceScheme {
			fmt.Printf(", system matrix nnz = %d", sysM.NNZ())
		}
		fmt.Printf("\n")
	}
}

// channelFlowField loads a parabolic channel profile with a linear streamwise
// pressure drop, enough structure to light up every term of the kernels.
func channelFlowField(mesh *PBInc.EdgeMesh, nx, ny int) (field *PBInc.FlowField) {
	field = PBInc.NewFlowField(mesh.NDim, mesh.NDim, mesh.NumNodes)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			var (
				node = i + j*nx
				y    = float64(j) / float64(ny-1)
			)
			field.Pressure[node] = 1. - 0.1*float64(i)/float64(nx-1)
			field.Density[node] = 1.
			field.Velocity.Set(0, node, 4.*y*(1.-y))
			field.Sensor[node] = 0.05
		}
	}
	return
}

func init() {
	SolveCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML input parameters file")
	SolveCmd.Flags().IntP("nx", "x", 16, "number of nodes along the channel")
	SolveCmd.Flags().IntP("ny", "y", 8, "number of nodes across the channel")
	SolveCmd.Flags().IntP("parallel", "p", 4, "number of assembly workers")
	SolveCmd.Flags().Bool("profile", false, "write a CPU profile for the sweep")
	if err := viper.BindPFlag("inputConditionsFile", SolveCmd.Flags().Lookup("inputConditionsFile")); err != nil {
		panic(err)
	}
}
