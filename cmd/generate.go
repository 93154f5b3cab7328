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
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/meshtopo/InputParameters"
	"github.com/notargets/meshtopo/mesh"
	"github.com/notargets/meshtopo/snapshot"
	"github.com/notargets/meshtopo/utils"
	"github.com/notargets/meshtopo/voronoi"
)

// GenerateCmd represents the generate command
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a structured mesh and write it as a snapshot",
	Long: `
Generates an axis aligned grid of lines, triangles, quadrilaterals, tetrahedra or
hexahedra. Parameters come from a YAML file (-I) or from flags:

meshtopo generate --shape tet --divisions 4,4,4 -o cube.mts`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			ip         *InputParameters.MeshParameters
			inputFile  string
			outputFile string
		)
		inputFile, _ = cmd.Flags().GetString("inputFile")
		if outputFile, _ = cmd.Flags().GetString("output"); len(outputFile) == 0 {
			return fmt.Errorf("must supply an output file (-o, --output)")
		}
		if len(inputFile) != 0 {
			if ip, err = readParameters(inputFile); err != nil {
				return
			}
		} else {
			ip = &InputParameters.MeshParameters{}
			ip.Shape, _ = cmd.Flags().GetString("shape")
			ip.Divisions, _ = cmd.Flags().GetIntSlice("divisions")
			ip.Min, _ = cmd.Flags().GetFloat64Slice("min")
			ip.Max, _ = cmd.Flags().GetFloat64Slice("max")
			ip.Voronoi, _ = cmd.Flags().GetBool("voronoi")
		}
		if len(ip.Compression) == 0 {
			ip.Compression = viper.GetString("compression")
		}
		return RunGenerate(ip, outputFile, newLogger(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(GenerateCmd)
	GenerateCmd.Flags().StringP("inputFile", "I", "", "YAML file of mesh parameters, overrides the grid flags")
	GenerateCmd.Flags().StringP("output", "o", "", "snapshot file to write")
	GenerateCmd.Flags().StringP("shape", "s", "tet", "cell shape: line, tri, quad, tet or hex")
	GenerateCmd.Flags().IntSliceP("divisions", "n", []int{2, 2, 2}, "cells per direction")
	GenerateCmd.Flags().Float64Slice("min", []float64{0, 0, 0}, "lower corner of the domain")
	GenerateCmd.Flags().Float64Slice("max", []float64{1, 1, 1}, "upper corner of the domain")
	GenerateCmd.Flags().Bool("voronoi", false, "attach dual grid attributes before writing")
	GenerateCmd.Flags().StringP("compression", "c", "zstd", "snapshot compression: none, lz4 or zstd")
	_ = viper.BindPFlag("compression", GenerateCmd.Flags().Lookup("compression"))
}

func readParameters(fileName string) (ip *InputParameters.MeshParameters, err error) {
	var data []byte
	if data, err = os.ReadFile(fileName); err != nil {
		return
	}
	ip = &InputParameters.MeshParameters{}
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", fileName, err)
	}
	return
}

// RunGenerate builds the mesh described by ip and writes it to outputFile.
func RunGenerate(ip *InputParameters.MeshParameters, outputFile string, log *utils.Logger, w io.Writer) (err error) {
	var (
		spec        mesh.StructuredSpec
		opts        mesh.Options
		m           *mesh.Mesh
		compression snapshot.Compression
	)
	if spec, err = ip.StructuredSpec(); err != nil {
		return
	}
	if opts, err = ip.Options(); err != nil {
		return
	}
	if len(ip.Compression) == 0 {
		compression = snapshot.CompressionZSTD
	} else if compression, err = snapshot.ParseCompression(ip.Compression); err != nil {
		return
	}
	opts.Logger = log
	if m, err = mesh.GenerateStructured(spec, opts); err != nil {
		return
	}
	if err = ip.ApplyRegions(m); err != nil {
		return
	}
	if ip.Voronoi {
		var r *voronoi.Result
		if r, err = voronoi.NewBuilder(m, voronoi.WithLogger(log)).Build(); err != nil {
			return
		}
		if err = r.Attach(m.Attributes()); err != nil {
			return
		}
	}
	var f *os.File
	if f, err = os.Create(outputFile); err != nil {
		return
	}
	if err = snapshot.Write(f, m, snapshot.WithCompression(compression)); err != nil {
		f.Close()
		return
	}
	if err = f.Close(); err != nil {
		return
	}
	fmt.Fprintf(w, "wrote %s: %d vertices, %d cells (%s)\n",
		outputFile, m.Count(0), m.Count(m.CellDimension()), compression)
	return
}

// loadSnapshot reads a mesh written by generate.
func loadSnapshot(fileName string, log *utils.Logger) (m *mesh.Mesh, err error) {
	var f *os.File
	if f, err = os.Open(fileName); err != nil {
		return
	}
	defer f.Close()
	if m, err = snapshot.Read(f, mesh.Options{Logger: log}); err != nil {
		return nil, fmt.Errorf("reading %s: %w", fileName, err)
	}
	return
}
