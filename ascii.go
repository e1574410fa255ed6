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
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
)

// DumpCSV writes the swath as CSV, one row per pixel: the scanline's
// UTC time, the pixel indices, geolocation, and the value. Invalid
// pixels are written as NaN.
func (s *Swath) DumpCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	valueHeader := s.Name
	if s.Units != "" {
		valueHeader += " (" + s.Units + ")"
	}
	if err := cw.Write([]string{"Time (UTC)", "Scanline", "Pixel",
		"Latitude", "Longitude", valueHeader}); err != nil {
		return fmt.Errorf("swathmap: writing CSV header: %v", err)
	}
	for i := 0; i < s.Rows(); i++ {
		var t string
		if s.Time != nil {
			t = s.Time[i].Format("2006-01-02 15:04:05")
		}
		for j := 0; j < s.Cols(); j++ {
			rec := []string{
				t,
				strconv.Itoa(i),
				strconv.Itoa(j),
				formatValue(s.Latitude.Get(i, j)),
				formatValue(s.Longitude.Get(i, j)),
				formatValue(s.Data.Get(i, j)),
			}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("swathmap: writing CSV record: %v", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
