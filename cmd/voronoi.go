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

	"github.com/notargets/meshtopo/mesh"
	"github.com/notargets/meshtopo/snapshot"
	"github.com/notargets/meshtopo/utils"
	"github.com/notargets/meshtopo/voronoi"
)

// VoronoiCmd represents the voronoi command
var VoronoiCmd = &cobra.Command{
	Use:   "voronoi <snapshot>",
	Short: "Build the Voronoi dual grid of a snapshot and report non-Delaunay warnings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		verbose, _ := cmd.Flags().GetBool("verbose")
		return RunVoronoi(args[0], output, verbose, newLogger(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(VoronoiCmd)
	VoronoiCmd.Flags().StringP("output", "o", "", "write the mesh with dual grid attributes to this snapshot")
	VoronoiCmd.Flags().BoolP("verbose", "v", false, "print every box volume and interface area")
}

// RunVoronoi builds the dual grid of the mesh in fileName. When output is set the
// mesh is written back with the dual grid quantities attached as attributes.
func RunVoronoi(fileName, output string, verbose bool, log *utils.Logger, w io.Writer) (err error) {
	var (
		m *mesh.Mesh
		r *voronoi.Result
	)
	if m, err = loadSnapshot(fileName, log); err != nil {
		return
	}
	if r, err = voronoi.NewBuilder(m, voronoi.WithLogger(log)).Build(); err != nil {
		return
	}
	fmt.Fprintf(w, "Total box volume: %g\n", r.TotalVolume())
	if verbose {
		for v := 0; v < m.Count(0); v++ {
			fmt.Fprintf(w, "  vertex %d: box volume %g\n", v, r.BoxVolume(v))
		}
		for e := 0; e < m.Count(1); e++ {
			fmt.Fprintf(w, "  edge %d: length %g, interface %g\n", e, r.EdgeLength(e), r.InterfaceArea(e))
		}
	}
	warnings := r.Warnings()
	fmt.Fprintf(w, "Warnings: %d\n", len(warnings))
	for _, wn := range warnings {
		fmt.Fprintf(w, "  %s\n", wn)
	}
	if len(output) == 0 {
		return
	}
	if err = r.Attach(m.Attributes()); err != nil {
		return
	}
	var (
		f           *os.File
		compression snapshot.Compression
	)
	if compression, err = snapshot.ParseCompression(viper.GetString("compression")); err != nil {
		return
	}
	if f, err = os.Create(output); err != nil {
		return
	}
	if err = snapshot.Write(f, m, snapshot.WithCompression(compression)); err != nil {
		f.Close()
		return
	}
	return f.Close()
}
