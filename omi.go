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
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/ctessum/sparse"
)

// DetectProduct determines the OMI product type from a file name,
// following the upstream product naming convention.
func DetectProduct(path string) Product {
	base := filepath.Base(path)
	switch {
	case strings.Contains(base, "NO2"):
		return ProductNO2
	case strings.Contains(base, "SO2"):
		return ProductSO2
	default:
		return ProductUnknown
	}
}

// ReadSwath reads the primary column-density dataset and its
// geolocation from an OMI HDF-EOS5 file. Fill and missing sentinels
// become NaN, and the declared scale factor and offset are applied to
// the remaining values.
func ReadSwath(path string) (*Swath, error) {
	p := DetectProduct(path)
	if p == ProductUnknown {
		return nil, fmt.Errorf("swathmap: %s is not an OMI NO2 or SO2 file", filepath.Base(path))
	}
	root, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("swathmap: opening %s: %v", path, err)
	}
	defer root.Close()
	return readSwath(root, p, filepath.Base(path))
}

// readSwath reads the product's swath from an already-opened file.
func readSwath(root api.Group, p Product, base string) (*Swath, error) {
	dataFields, err := subGroup(root, "HDFEOS", "SWATHS", p.swathGroup(), "Data Fields")
	if err != nil {
		return nil, fmt.Errorf("swathmap: %s: %v", base, err)
	}
	geoFields, err := subGroup(root, "HDFEOS", "SWATHS", p.swathGroup(), "Geolocation Fields")
	if err != nil {
		return nil, fmt.Errorf("swathmap: %s: %v", base, err)
	}

	v, err := dataFields.GetVariable(p.sdsName())
	if err != nil {
		return nil, fmt.Errorf("swathmap: %s does not contain the SDS %s: %v",
			base, p.sdsName(), err)
	}
	data, err := toDense(v.Values)
	if err != nil {
		return nil, fmt.Errorf("swathmap: reading %s: %v", p.sdsName(), err)
	}
	if len(data.Shape) != 2 {
		return nil, fmt.Errorf("swathmap: SDS %s has %d dimensions; want 2",
			p.sdsName(), len(data.Shape))
	}

	var sentinels []float64
	if fill, ok := attrFloat(v.Attributes, "_FillValue"); ok {
		sentinels = append(sentinels, fill)
	}
	if missing, ok := attrFloat(v.Attributes, "MissingValue"); ok {
		sentinels = append(sentinels, missing)
	}
	scale, ok := attrFloat(v.Attributes, "ScaleFactor")
	if !ok {
		scale = 1
	}
	offset, ok := attrFloat(v.Attributes, "Offset")
	if !ok {
		offset = 0
	}
	maskScale(data, sentinels, scale, offset)

	s := &Swath{
		Product:  p,
		FileName: base,
		Name:     p.sdsName(),
		Data:     data,
		ValidMin: math.NaN(),
		ValidMax: math.NaN(),
	}
	s.Units, _ = attrString(v.Attributes, "Units")
	if lo, hi, ok := attrFloatPair(v.Attributes, "ValidRange"); ok {
		s.ValidMin, s.ValidMax = lo, hi
	}

	s.Latitude, err = readGeoField(geoFields, "Latitude")
	if err != nil {
		return nil, err
	}
	s.Longitude, err = readGeoField(geoFields, "Longitude")
	if err != nil {
		return nil, err
	}
	for _, g := range []*sparse.DenseArray{s.Latitude, s.Longitude} {
		if len(g.Shape) != 2 || g.Shape[0] != data.Shape[0] || g.Shape[1] != data.Shape[1] {
			return nil, fmt.Errorf("swathmap: geolocation shape %v does not match data shape %v",
				g.Shape, data.Shape)
		}
	}

	// Scan times are optional; some subset files drop them. A Time
	// field that is present but unreadable is treated as file
	// corruption rather than absence.
	if tv, err := geoFields.GetVariable("Time"); err == nil {
		times, err := toDense(tv.Values)
		if err != nil {
			return nil, fmt.Errorf("swathmap: reading Time: %v", err)
		}
		if len(times.Shape) != 1 || times.Shape[0] != data.Shape[0] {
			return nil, fmt.Errorf("swathmap: Time shape %v does not match %d scanlines",
				times.Shape, data.Shape[0])
		}
		s.Time = make([]time.Time, times.Shape[0])
		for i, sec := range times.Elements {
			s.Time[i] = TAI93ToUTC(sec)
		}
	}

	return s, nil
}

// SDSInfo describes one science dataset within a swath group.
type SDSInfo struct {
	Name string
	Dims []int
}

// ListDataFields lists the science datasets under the swath's
// "Data Fields" group with their dimensions.
func ListDataFields(path string) ([]SDSInfo, error) {
	return listFields(path, "Data Fields")
}

// ListGeolocationFields lists the datasets under the swath's
// "Geolocation Fields" group with their dimensions.
func ListGeolocationFields(path string) ([]SDSInfo, error) {
	return listFields(path, "Geolocation Fields")
}

func listFields(path, leaf string) ([]SDSInfo, error) {
	p := DetectProduct(path)
	if p == ProductUnknown {
		return nil, fmt.Errorf("swathmap: %s is not an OMI NO2 or SO2 file", filepath.Base(path))
	}
	root, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("swathmap: opening %s: %v", path, err)
	}
	defer root.Close()
	return listGroupFields(root, p, filepath.Base(path), leaf)
}

// listGroupFields lists the datasets under one swath subgroup of an
// already-opened file.
func listGroupFields(root api.Group, p Product, base, leaf string) ([]SDSInfo, error) {
	g, err := subGroup(root, "HDFEOS", "SWATHS", p.swathGroup(), leaf)
	if err != nil {
		return nil, fmt.Errorf("swathmap: %s: %v", base, err)
	}
	var infos []SDSInfo
	for _, name := range g.ListVariables() {
		v, err := g.GetVariable(name)
		if err != nil {
			return nil, fmt.Errorf("swathmap: reading SDS %s: %v", name, err)
		}
		infos = append(infos, SDSInfo{Name: name, Dims: valueShape(v.Values)})
	}
	return infos, nil
}

// subGroup walks a slash-free group path one segment at a time, since
// HDF-EOS5 group names may themselves contain spaces.
func subGroup(g api.Group, path ...string) (api.Group, error) {
	cur := g
	for _, name := range path {
		next, err := cur.GetGroup(name)
		if err != nil {
			return nil, fmt.Errorf("group %s: %v", strings.Join(path, "/"), err)
		}
		cur = next
	}
	return cur, nil
}

// readGeoField reads a 2-D geolocation variable into a DenseArray.
func readGeoField(g api.Group, name string) (*sparse.DenseArray, error) {
	v, err := g.GetVariable(name)
	if err != nil {
		return nil, fmt.Errorf("swathmap: reading geolocation field %s: %v", name, err)
	}
	d, err := toDense(v.Values)
	if err != nil {
		return nil, fmt.Errorf("swathmap: reading geolocation field %s: %v", name, err)
	}
	return d, nil
}

// valueShape returns the dimension lengths of the nested slices the
// netcdf library uses to represent dimensioned values.
func valueShape(values interface{}) []int {
	var shape []int
	v := reflect.ValueOf(values)
	for v.Kind() == reflect.Slice {
		shape = append(shape, v.Len())
		if v.Len() == 0 {
			break
		}
		v = v.Index(0)
	}
	return shape
}

// toDense flattens nested numeric slices into a DenseArray, converting
// any element type to float64.
func toDense(values interface{}) (*sparse.DenseArray, error) {
	shape := valueShape(values)
	if len(shape) == 0 {
		return nil, fmt.Errorf("value of type %T is not an array", values)
	}
	data := sparse.ZerosDense(shape...)
	i := 0
	var walk func(rv reflect.Value) error
	walk = func(rv reflect.Value) error {
		if rv.Kind() == reflect.Slice {
			for j := 0; j < rv.Len(); j++ {
				if err := walk(rv.Index(j)); err != nil {
					return err
				}
			}
			return nil
		}
		if i >= len(data.Elements) {
			return fmt.Errorf("ragged array: more than %d elements", len(data.Elements))
		}
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			data.Elements[i] = rv.Float()
		case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
			data.Elements[i] = float64(rv.Int())
		case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
			data.Elements[i] = float64(rv.Uint())
		default:
			return fmt.Errorf("unsupported element type %s", rv.Kind())
		}
		i++
		return nil
	}
	if err := walk(reflect.ValueOf(values)); err != nil {
		return nil, err
	}
	return data, nil
}

// attrFloat returns a numeric attribute, accepting both scalar and
// single-element array storage.
func attrFloat(attrs api.AttributeMap, key string) (float64, bool) {
	v, ok := attrs.Get(key)
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// attrFloatPair returns the first two elements of a numeric array
// attribute such as ValidRange.
func attrFloatPair(attrs api.AttributeMap, key string) (lo, hi float64, ok bool) {
	v, has := attrs.Get(key)
	if !has {
		return 0, 0, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice || rv.Len() < 2 {
		return 0, 0, false
	}
	lo, ok1 := toFloat(rv.Index(0).Interface())
	hi, ok2 := toFloat(rv.Index(1).Interface())
	return lo, hi, ok1 && ok2
}

// attrString returns a string attribute, accepting both scalar and
// single-element array storage.
func attrString(attrs api.AttributeMap, key string) (string, bool) {
	v, ok := attrs.Get(key)
	if !ok {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case []string:
		if len(t) > 0 {
			return t[0], true
		}
	}
	return "", false
}

func toFloat(v interface{}) (float64, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		if rv.Len() == 0 {
			return 0, false
		}
		rv = rv.Index(0)
	}
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		return float64(rv.Int()), true
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		return float64(rv.Uint()), true
	default:
		return 0, false
	}
}
