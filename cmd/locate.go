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
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/notargets/meshtopo/geometry"
	"github.com/notargets/meshtopo/locator"
	"github.com/notargets/meshtopo/mesh"
	"github.com/notargets/meshtopo/utils"
)

// LocateCmd represents the locate command
var LocateCmd = &cobra.Command{
	Use:   "locate <snapshot>",
	Short: "Find the element closest to a point",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		point, _ := cmd.Flags().GetFloat64Slice("point")
		dim, _ := cmd.Flags().GetInt("dimension")
		return RunLocate(args[0], point, dim, newLogger(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(LocateCmd)
	LocateCmd.Flags().Float64SliceP("point", "p", nil, "query point, one coordinate per geometric dimension")
	LocateCmd.Flags().IntP("dimension", "d", -1, "element dimension to search, cells when negative")
}

func RunLocate(fileName string, point []float64, dim int, log *utils.Logger, w io.Writer) (err error) {
	var (
		m   *mesh.Mesh
		loc *locator.Locator
	)
	if m, err = loadSnapshot(fileName, log); err != nil {
		return
	}
	if len(point) != m.GeometricDimension() {
		return fmt.Errorf("point has %d coordinates, mesh has %d", len(point), m.GeometricDimension())
	}
	if dim < 0 {
		dim = m.CellDimension()
	}
	if loc, err = locator.New(m, dim, nil); err != nil {
		return
	}
	id, dist, err := loc.Closest(geometry.Point(point))
	if err != nil {
		return
	}
	e, err := m.Element(dim, id)
	if err != nil {
		return
	}
	inside, err := m.Inside(geometry.Point(point), mesh.ElementRef{Dim: dim, ID: id}, nil)
	if err != nil {
		return
	}
	where := "outside"
	if inside {
		where = "inside"
	}
	fmt.Fprintf(w, "%s %d at distance %g (%s), vertices %v\n", e.Shape, id, dist, where, e.Vertices)
	bd, err := m.BoundaryDistance(geometry.Point(point), nil)
	switch {
	case errors.Is(err, mesh.ErrNoBoundary):
		return nil
	case err != nil:
		return
	}
	fmt.Fprintf(w, "Distance to mesh boundary: %g\n", bd)
	return
}
