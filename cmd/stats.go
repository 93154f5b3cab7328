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
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/notargets/meshtopo/mesh"
	"github.com/notargets/meshtopo/snapshot"
	"github.com/notargets/meshtopo/utils"
)

// StatsCmd represents the stats command
var StatsCmd = &cobra.Command{
	Use:   "stats <snapshot>",
	Short: "Print element counts, boundary sizes and regions of a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunStats(args[0], newLogger(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(StatsCmd)
}

func RunStats(fileName string, log *utils.Logger, w io.Writer) (err error) {
	var (
		data    []byte
		summary snapshot.Summary
		m       *mesh.Mesh
	)
	if data, err = os.ReadFile(fileName); err != nil {
		return
	}
	if summary, err = snapshot.Inspect(bytes.NewReader(data)); err != nil {
		return
	}
	if m, err = snapshot.Read(bytes.NewReader(data), mesh.Options{Logger: log}); err != nil {
		return
	}
	fmt.Fprintf(w, "%s: %d bytes stored, %d bytes payload (%s)\n",
		fileName, summary.StoredBytes, summary.PayloadBytes, summary.Compression)
	m.PrintStatistics(w)
	log.Debug("snapshot loaded", "memory", utils.GetMemUsage())
	for d := 0; d < m.CellDimension(); d++ {
		var b utils.Index
		if b, err = m.BoundaryElements(d); err != nil {
			return
		}
		fmt.Fprintf(w, "  Boundary dimension %d: %d elements\n", d, len(b))
	}
	var surface float64
	if surface, err = m.Surface(nil); err != nil {
		return
	}
	fmt.Fprintf(w, "  Boundary measure: %g\n", surface)
	attrs := m.Attributes()
	for _, name := range attrs.ScalarNames() {
		fmt.Fprintf(w, "  Scalar attribute %s: %d values\n", name, len(attrs.ScalarField(name)))
	}
	for _, name := range attrs.VectorNames() {
		fmt.Fprintf(w, "  Vector attribute %s: %d values\n", name, len(attrs.VectorField(name)))
	}
	return
}
