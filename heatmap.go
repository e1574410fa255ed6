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
	"image/color"
	"io"
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/carto"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// MapOptions control heatmap rendering.
type MapOptions struct {
	// Width is the total image width. 7 inches if zero.
	Width vg.Length
	// CutPercentile is the percentile at which the color scale tops
	// out, suppressing outlier pixels. 99.5 if zero.
	CutPercentile float64
}

const (
	legendHeight = 0.6 * vg.Inch
	titleHeight  = 0.4 * vg.Inch
)

// DrawMap renders the swath as a heatmap with a title and a color bar
// legend, writing PNG-encoded output to w. Invalid pixels are left as
// background rather than mapped to a color. Output is deterministic
// for a given swath and options.
func (s *Swath) DrawMap(w io.Writer, o MapOptions) error {
	if o.Width <= 0 {
		o.Width = 7 * vg.Inch
	}
	if o.CutPercentile <= 0 {
		o.CutPercentile = 99.5
	}

	minLat, maxLat, minLon, maxLon := s.Extent()
	if minLat > maxLat || minLon > maxLon {
		return fmt.Errorf("swathmap: %s has no geolocated pixels to map", s.FileName)
	}
	aspect := (maxLat - minLat) / (maxLon - minLon)
	if aspect > 1.5 {
		aspect = 1.5
	}
	mapHeight := vg.Length(float64(o.Width) * aspect)
	height := mapHeight + legendHeight + titleHeight

	img := vgimg.New(o.Width, height)
	dc := draw.New(img)
	titleCanvas := draw.Crop(dc, 0, 0, height-titleHeight, 0)
	mapCanvas := draw.Crop(dc, 0, 0, legendHeight, -titleHeight)
	legendCanvas := draw.Crop(dc, 0, 0, 0, -(titleHeight + mapHeight))

	// A LinCutoff color map cannot be set from an empty value array.
	vals := s.validValues()
	cmap := carto.NewColorMap(carto.LinCutoff)
	cmap.CutPercentile = o.CutPercentile
	cmap.Font = plot.DefaultFont

	m := carto.NewCanvas(maxLat, minLat, maxLon, minLon, mapCanvas)
	ls := draw.LineStyle{Width: vg.Points(0.25)}
	var glyph draw.GlyphStyle
	if len(vals) > 0 {
		cmap.AddArray(vals)
		cmap.Set()
		for i := 0; i < s.Rows(); i++ {
			for j := 0; j < s.Cols(); j++ {
				v := s.Data.Get(i, j)
				if math.IsNaN(v) {
					continue
				}
				quad, ok := s.pixelQuad(i, j)
				if !ok {
					continue
				}
				c := cmap.GetColor(v)
				ls.Color = c
				if err := m.DrawVector(quad, c, ls, glyph); err != nil {
					return fmt.Errorf("swathmap: drawing pixel (%d,%d): %v", i, j, err)
				}
			}
		}
		label := s.Units
		if label == "" {
			label = s.Name
		}
		if err := cmap.Legend(&legendCanvas, label); err != nil {
			return fmt.Errorf("swathmap: drawing legend: %v", err)
		}
	}

	font, err := vg.MakeFont(plot.DefaultFont, vg.Points(10))
	if err != nil {
		return fmt.Errorf("swathmap: loading title font: %v", err)
	}
	ts := draw.TextStyle{
		Color:  color.Black,
		Font:   font,
		XAlign: draw.XCenter,
		YAlign: draw.YBottom,
	}
	titleCanvas.FillText(ts, vg.Point{
		X: (titleCanvas.Min.X + titleCanvas.Max.X) / 2,
		Y: titleCanvas.Min.Y + 0.1*vg.Inch,
	}, s.FileName+"  "+s.Name)

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(w); err != nil {
		return fmt.Errorf("swathmap: encoding map: %v", err)
	}
	return nil
}

// pixelQuad builds the quadrilateral covering pixel (i,j), with
// corners estimated from the neighboring pixel centers; at the swath
// edges the corners collapse onto the outermost centers.
func (s *Swath) pixelQuad(i, j int) (geom.Polygon, bool) {
	corners := [4][2]int{{i, j}, {i, j + 1}, {i + 1, j + 1}, {i + 1, j}}
	pts := make([]geom.Point, 5)
	for k, c := range corners {
		lat, lon, ok := s.cornerLatLon(c[0], c[1])
		if !ok {
			return nil, false
		}
		pts[k] = geom.Point{X: lon, Y: lat}
	}
	pts[4] = pts[0]
	// A quad spanning the antimeridian would smear across the whole
	// map; skip those pixels.
	minX, maxX := pts[0].X, pts[0].X
	for _, p := range pts[1:4] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
	}
	if maxX-minX > 180 {
		return nil, false
	}
	return geom.Polygon{pts}, true
}

// cornerLatLon estimates the geolocation of grid corner (ci, cj) by
// averaging the up-to-four adjacent pixel centers. It fails if any
// adjacent center has fill-value geolocation.
func (s *Swath) cornerLatLon(ci, cj int) (lat, lon float64, ok bool) {
	var latSum, lonSum float64
	n := 0
	for _, di := range [2]int{-1, 0} {
		for _, dj := range [2]int{-1, 0} {
			i, j := ci+di, cj+dj
			if i < 0 || i >= s.Rows() || j < 0 || j >= s.Cols() {
				continue
			}
			la := s.Latitude.Get(i, j)
			lo := s.Longitude.Get(i, j)
			if !geoValid(la, lo) {
				return 0, 0, false
			}
			latSum += la
			lonSum += lo
			n++
		}
	}
	if n == 0 {
		return 0, 0, false
	}
	return latSum / float64(n), lonSum / float64(n), true
}
