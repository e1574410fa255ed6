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

// Package swathmap reads OMI level-2 trace-gas swaths from HDF-EOS5
// files and renders them as heatmaps.
package swathmap

import (
	"math"
	"sort"
	"time"

	"github.com/GaryBoone/GoStats/stats"
	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Version is the SwathMap version number.
const Version = "0.1.0"

// Product identifies which OMI level-2 product a file holds.
type Product int

const (
	// ProductUnknown is a file that is neither an NO2 nor an SO2 product.
	ProductUnknown Product = iota
	// ProductNO2 is the OMNO2 nitrogen dioxide product.
	ProductNO2
	// ProductSO2 is the OMSO2 sulfur dioxide product.
	ProductSO2
)

func (p Product) String() string {
	switch p {
	case ProductNO2:
		return "NO2"
	case ProductSO2:
		return "SO2"
	default:
		return "unknown"
	}
}

// swathGroup returns the name of the HDF-EOS5 group holding the
// product's swath, under HDFEOS/SWATHS.
func (p Product) swathGroup() string {
	switch p {
	case ProductNO2:
		return "ColumnAmountNO2"
	case ProductSO2:
		return "OMI Total Column Amount SO2"
	default:
		return ""
	}
}

// sdsName returns the name of the product's primary science dataset.
func (p Product) sdsName() string {
	switch p {
	case ProductNO2:
		return "ColumnAmountNO2"
	case ProductSO2:
		return "ColumnAmountSO2_PBL"
	default:
		return ""
	}
}

// Swath holds one level-2 column-density grid and its geolocation.
// The grid dimensions are (along-track scanline, cross-track position).
// Invalid pixels hold NaN, and the grid is not mutated after loading.
type Swath struct {
	Product  Product
	FileName string

	// Name and Units describe the science dataset the grid was read
	// from, e.g. "ColumnAmountSO2_PBL" and "DU".
	Name  string
	Units string

	// Data holds the masked, scaled column-density values. Latitude
	// and Longitude hold the pixel-center geolocation and always share
	// Data's shape.
	Data      *sparse.DenseArray
	Latitude  *sparse.DenseArray
	Longitude *sparse.DenseArray

	// Time holds per-scanline measurement times (UTC). It is nil when
	// the file carries no Time geolocation field.
	Time []time.Time

	// ValidMin and ValidMax are the dataset's declared valid range,
	// or NaN when the file declares none.
	ValidMin, ValidMax float64
}

// Rows returns the along-track dimension of the grid.
func (s *Swath) Rows() int { return s.Data.Shape[0] }

// Cols returns the cross-track dimension of the grid.
func (s *Swath) Cols() int { return s.Data.Shape[1] }

// maskScale replaces fill and missing sentinels with NaN and then
// applies the scale factor and offset to the remaining values, in that
// order: sentinels are compared against the raw stored values.
func maskScale(data *sparse.DenseArray, sentinels []float64, scale, offset float64) {
	for i, v := range data.Elements {
		masked := false
		for _, s := range sentinels {
			if v == s {
				data.Elements[i] = math.NaN()
				masked = true
				break
			}
		}
		if !masked {
			data.Elements[i] = scale * (v - offset)
		}
	}
}

// Statistics summarizes the valid (non-NaN) pixels of a swath.
type Statistics struct {
	N                    int // number of valid pixels
	Mean, StdDev, Median float64
	Min, Max             float64
}

// Statistics computes summary statistics over the valid pixels.
// All fields except N are NaN for a swath with no valid pixels.
func (s *Swath) Statistics() Statistics {
	vals := s.validValues()
	if len(vals) == 0 {
		nan := math.NaN()
		return Statistics{Mean: nan, StdDev: nan, Median: nan, Min: nan, Max: nan}
	}
	sort.Float64s(vals)
	return Statistics{
		N:      len(vals),
		Mean:   stats.StatsMean(vals),
		StdDev: populationStdDev(vals),
		Median: stat.Quantile(0.5, stat.LinInterp, vals, nil),
		Min:    floats.Min(vals),
		Max:    floats.Max(vals),
	}
}

// populationStdDev matches the original product documentation, which
// reports the population rather than the sample standard deviation.
func populationStdDev(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	return stats.StatsPopulationStandardDeviation(vals)
}

// validValues returns the non-NaN grid values in storage order.
func (s *Swath) validValues() []float64 {
	vals := make([]float64, 0, len(s.Data.Elements))
	for _, v := range s.Data.Elements {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	return vals
}

// Extent returns the range of latitude and longitude covered by the
// swath, ignoring geolocation fill values.
func (s *Swath) Extent() (minLat, maxLat, minLon, maxLon float64) {
	minLat, maxLat = math.Inf(1), math.Inf(-1)
	minLon, maxLon = math.Inf(1), math.Inf(-1)
	for i, lat := range s.Latitude.Elements {
		lon := s.Longitude.Elements[i]
		if !geoValid(lat, lon) {
			continue
		}
		minLat = math.Min(minLat, lat)
		maxLat = math.Max(maxLat, lat)
		minLon = math.Min(minLon, lon)
		maxLon = math.Max(maxLon, lon)
	}
	return
}

// geoValid reports whether a pixel has plausible geolocation; OMI
// files mark unlocated pixels with a large negative fill value.
func geoValid(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180 &&
		!math.IsNaN(lat) && !math.IsNaN(lon)
}

// At returns the grid value at the pixel nearest the given location,
// along with the pixel's scanline and cross-track indices. The
// returned value is NaN if the nearest pixel is invalid.
func (s *Swath) At(lat, lon float64) (val float64, row, col int) {
	best := math.Inf(1)
	row, col = -1, -1
	for i := 0; i < s.Rows(); i++ {
		for j := 0; j < s.Cols(); j++ {
			pLat := s.Latitude.Get(i, j)
			pLon := s.Longitude.Get(i, j)
			if !geoValid(pLat, pLon) {
				continue
			}
			d := (pLat-lat)*(pLat-lat) + (pLon-lon)*(pLon-lon)
			if d < best {
				best = d
				row, col = i, j
			}
		}
	}
	if row < 0 {
		return math.NaN(), row, col
	}
	return s.Data.Get(row, col), row, col
}
