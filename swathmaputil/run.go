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

package swathmaputil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/swathmap"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
)

var mapCmd = &cobra.Command{
	Use:   "map [files]",
	Short: "Render heatmap PNGs from OMI swath files",
	RunE: func(cmd *cobra.Command, args []string) error {
		return eachInput(args, func(path string) error {
			s, err := swathmap.ReadSwath(path)
			if err != nil {
				return err
			}
			out := outputPath(path, ".png")
			w, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("swathmap: creating %s: %v", out, err)
			}
			defer w.Close()
			o := swathmap.MapOptions{
				Width:         vg.Length(Cfg.GetFloat64("width")) * vg.Inch,
				CutPercentile: Cfg.GetFloat64("cutoff"),
			}
			if err := s.DrawMap(w, o); err != nil {
				return err
			}
			Log.WithFields(logrus.Fields{
				"file": s.FileName,
				"sds":  s.Name,
				"out":  out,
			}).Info("wrote map")
			return nil
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats [files]",
	Short: "Print swath statistics and geographic extent",
	RunE: func(cmd *cobra.Command, args []string) error {
		return eachInput(args, func(path string) error {
			s, err := swathmap.ReadSwath(path)
			if err != nil {
				return err
			}
			st := s.Statistics()
			minLat, maxLat, minLon, maxLon := s.Extent()
			fmt.Printf("%s (%s %s)\n", s.FileName, s.Product, s.Name)
			fmt.Printf("  valid pixels:  %d of %d\n", st.N, s.Rows()*s.Cols())
			fmt.Printf("  mean:          %.3f %s\n", st.Mean, s.Units)
			fmt.Printf("  stddev:        %.3f\n", st.StdDev)
			fmt.Printf("  median:        %.3f\n", st.Median)
			fmt.Printf("  min, max:      %.3f, %.3f\n", st.Min, st.Max)
			fmt.Printf("  latitude:      %g to %g degrees\n", minLat, maxLat)
			fmt.Printf("  longitude:     %g to %g degrees\n", minLon, maxLon)
			if s.Product == swathmap.ProductSO2 {
				fmt.Printf("  valid range:   %g to %g\n", s.ValidMin, s.ValidMax)
			}
			return nil
		})
	},
}

var listCmd = &cobra.Command{
	Use:   "list [files]",
	Short: "List the SDS names and dimensions in OMI swath files",
	RunE: func(cmd *cobra.Command, args []string) error {
		return eachInput(args, func(path string) error {
			data, err := swathmap.ListDataFields(path)
			if err != nil {
				return err
			}
			geo, err := swathmap.ListGeolocationFields(path)
			if err != nil {
				return err
			}
			fmt.Printf("%s\nData Fields:\n", filepath.Base(path))
			for _, sds := range data {
				fmt.Printf("  %s, dim=%v\n", sds.Name, sds.Dims)
			}
			fmt.Println("Geolocation Fields:")
			for _, sds := range geo {
				fmt.Printf("  %s, dim=%v\n", sds.Name, sds.Dims)
			}
			return nil
		})
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump [files]",
	Short: "Write per-pixel CSV dumps of OMI swath files",
	RunE: func(cmd *cobra.Command, args []string) error {
		return eachInput(args, func(path string) error {
			s, err := swathmap.ReadSwath(path)
			if err != nil {
				return err
			}
			out := outputPath(path, ".csv")
			w, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("swathmap: creating %s: %v", out, err)
			}
			defer w.Close()
			if err := s.DumpCSV(w); err != nil {
				return err
			}
			Log.WithFields(logrus.Fields{"file": s.FileName, "out": out}).Info("wrote dump")
			return nil
		})
	},
}

var atCmd = &cobra.Command{
	Use:   "at [files]",
	Short: "Print the swath value nearest a --lat/--lon location",
	RunE: func(cmd *cobra.Command, args []string) error {
		lat := Cfg.GetFloat64("lat")
		lon := Cfg.GetFloat64("lon")
		return eachInput(args, func(path string) error {
			s, err := swathmap.ReadSwath(path)
			if err != nil {
				return err
			}
			v, row, col := s.At(lat, lon)
			if row < 0 {
				return fmt.Errorf("swathmap: %s has no geolocated pixels", s.FileName)
			}
			fmt.Printf("%s: %s at (%g, %g) = %g %s (scanline %d, pixel %d)\n",
				s.FileName, s.Name, lat, lon, v, s.Units, row, col)
			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [files]",
	Short: "Export masked, scaled swaths to NetCDF files",
	RunE: func(cmd *cobra.Command, args []string) error {
		return eachInput(args, func(path string) error {
			s, err := swathmap.ReadSwath(path)
			if err != nil {
				return err
			}
			out := outputPath(path, ".nc")
			ff, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("swathmap: creating %s: %v", out, err)
			}
			defer ff.Close()
			if err := s.WriteNetCDF(ff); err != nil {
				return err
			}
			Log.WithFields(logrus.Fields{"file": s.FileName, "out": out}).Info("wrote NetCDF")
			return nil
		})
	},
}

// eachInput runs f for every input file, failing fast on the first
// error so a bad file does not produce partial batch output silently.
func eachInput(args []string, f func(path string) error) error {
	files, err := inputFiles(args)
	if err != nil {
		return err
	}
	for _, path := range files {
		if err := f(path); err != nil {
			return err
		}
	}
	return nil
}

// inputFiles combines command-line arguments with the lines of the
// --filelist file, if one was given.
func inputFiles(args []string) ([]string, error) {
	files := append([]string{}, args...)
	if fl := Cfg.GetString("filelist"); fl != "" {
		b, err := os.ReadFile(fl)
		if err != nil {
			return nil, fmt.Errorf("swathmap: reading file list: %v", err)
		}
		for _, line := range strings.Split(string(b), "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				files = append(files, line)
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("swathmap: no input files specified")
	}
	return files, nil
}

// outputPath places the input file's base name, with its extension
// replaced, in the output directory.
func outputPath(input, ext string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + ext
	return filepath.Join(Cfg.GetString("out"), base)
}
