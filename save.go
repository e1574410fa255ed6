/*
Copyright © 2025 the SwathMap authors.
This file is part of SwathMap.

SwathMap is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

SwathMap is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with SwathMap.  If not, see <http://www.gnu.org/licenses/>.
*/

package swathmap

import (
	"fmt"
	"math"
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// WriteNetCDF writes the masked, scaled grid and its geolocation to a
// NetCDF classic file. Invalid pixels stay NaN in the output; readers
// apply their own masks.
func (s *Swath) WriteNetCDF(ff *os.File) error {
	rows, cols := s.Rows(), s.Cols()
	h := cdf.NewHeader([]string{"nTrack", "nXtrack"}, []int{rows, cols})

	h.AddVariable(s.Name, []string{"nTrack", "nXtrack"}, []float64{0})
	if s.Units != "" {
		h.AddAttribute(s.Name, "units", s.Units)
	}
	h.AddAttribute(s.Name, "description",
		fmt.Sprintf("%s column density from %s", s.Product, s.FileName))
	if !math.IsNaN(s.ValidMin) && !math.IsNaN(s.ValidMax) {
		h.AddAttribute(s.Name, "valid_range", []float64{s.ValidMin, s.ValidMax})
	}

	h.AddVariable("Latitude", []string{"nTrack", "nXtrack"}, []float64{0})
	h.AddAttribute("Latitude", "units", "degrees_north")
	h.AddVariable("Longitude", []string{"nTrack", "nXtrack"}, []float64{0})
	h.AddAttribute("Longitude", "units", "degrees_east")

	if s.Time != nil {
		h.AddVariable("Time", []string{"nTrack"}, []float64{0})
		h.AddAttribute("Time", "units", "seconds since 1993-01-01 00:00:00 UTC")
	}

	h.Define()
	for _, err := range h.Check() {
		return fmt.Errorf("swathmap: creating NetCDF header: %v", err)
	}
	f, err := cdf.Create(ff, h)
	if err != nil {
		return fmt.Errorf("swathmap: creating NetCDF file: %v", err)
	}

	grids := []struct {
		name string
		data *sparse.DenseArray
	}{
		{s.Name, s.Data},
		{"Latitude", s.Latitude},
		{"Longitude", s.Longitude},
	}
	for _, g := range grids {
		w := f.Writer(g.name, []int{0, 0}, []int{rows, cols})
		if _, err := w.Write(g.data.Elements); err != nil {
			return fmt.Errorf("swathmap: writing NetCDF variable %s: %v", g.name, err)
		}
	}
	if s.Time != nil {
		secs := make([]float64, len(s.Time))
		for i, t := range s.Time {
			secs[i] = UTCToTAI93(t)
		}
		w := f.Writer("Time", []int{0}, []int{len(secs)})
		if _, err := w.Write(secs); err != nil {
			return fmt.Errorf("swathmap: writing NetCDF variable Time: %v", err)
		}
	}
	return nil
}
