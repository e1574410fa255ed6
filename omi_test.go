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
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
)

func TestDetectProduct(t *testing.T) {
	tests := []struct {
		path string
		want Product
	}{
		{"OMI-Aura_L2-OMSO2_2005m0714t2324-o05323_v003.he5", ProductSO2},
		{"/data/OMI-Aura_L2-OMNO2_2005m0714t2324-o05323_v003.he5", ProductNO2},
		{"wrfout_d01_2005-01-01", ProductUnknown},
	}
	for _, test := range tests {
		if have := DetectProduct(test.path); have != test.want {
			t.Errorf("%s: have %v, want %v", test.path, have, test.want)
		}
	}
}

func TestToDense(t *testing.T) {
	values := [][]float32{{1, 2, 3}, {4, 5, 6}}
	d, err := toDense(values)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(d.Shape, []int{2, 3}) {
		t.Fatalf("shape: have %v, want [2 3]", d.Shape)
	}
	if d.Get(1, 2) != 6 {
		t.Errorf("element (1,2): have %g, want 6", d.Get(1, 2))
	}

	ints, err := toDense([]int16{7, 8})
	if err != nil {
		t.Fatal(err)
	}
	if ints.Get(1) != 8 {
		t.Errorf("element 1: have %g, want 8", ints.Get(1))
	}

	if _, err := toDense("not an array"); err == nil {
		t.Error("expected an error for a non-array value")
	}
}

func TestValueShape(t *testing.T) {
	have := valueShape([][][]float64{{{1}, {2}}, {{3}, {4}}})
	if !reflect.DeepEqual(have, []int{2, 2, 1}) {
		t.Errorf("have %v, want [2 2 1]", have)
	}
	if s := valueShape(float64(1)); s != nil {
		t.Errorf("scalar shape: have %v, want nil", s)
	}
}

// fakeAttrs is a test stand-in for the netcdf library's AttributeMap.
type fakeAttrs map[string]interface{}

func (f fakeAttrs) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	return keys
}
func (f fakeAttrs) Get(key string) (interface{}, bool) { v, ok := f[key]; return v, ok }
func (f fakeAttrs) GetType(string) (string, bool)      { return "", false }
func (f fakeAttrs) GetGoType(string) (string, bool)    { return "", false }

func TestAttrHelpers(t *testing.T) {
	attrs := fakeAttrs{
		"_FillValue":  []float32{float32(testFill)},
		"ScaleFactor": float64(2),
		"Units":       "DU",
		"Title":       []string{"Vertical column amount SO2 in PBL"},
		"ValidRange":  []float32{-10, 2000},
	}

	if v, ok := attrFloat(attrs, "_FillValue"); !ok || v != float64(float32(testFill)) {
		t.Errorf("_FillValue: have %g (%v)", v, ok)
	}
	if v, ok := attrFloat(attrs, "ScaleFactor"); !ok || v != 2 {
		t.Errorf("ScaleFactor: have %g (%v)", v, ok)
	}
	if _, ok := attrFloat(attrs, "Offset"); ok {
		t.Error("Offset should be absent")
	}
	if v, ok := attrString(attrs, "Units"); !ok || v != "DU" {
		t.Errorf("Units: have %q (%v)", v, ok)
	}
	if v, ok := attrString(attrs, "Title"); !ok || v != "Vertical column amount SO2 in PBL" {
		t.Errorf("Title: have %q (%v)", v, ok)
	}
	lo, hi, ok := attrFloatPair(attrs, "ValidRange")
	if !ok || lo != -10 || hi != 2000 {
		t.Errorf("ValidRange: have %g to %g (%v)", lo, hi, ok)
	}
}

// fakeGroup is a test stand-in for the netcdf library's Group,
// holding an in-memory group tree.
type fakeGroup struct {
	groups map[string]*fakeGroup
	vars   map[string]*api.Variable
}

func (g *fakeGroup) Close()                        {}
func (g *fakeGroup) Attributes() api.AttributeMap  { return fakeAttrs{} }
func (g *fakeGroup) ListSubgroups() []string       { return nil }
func (g *fakeGroup) ListTypes() []string           { return nil }
func (g *fakeGroup) GetType(string) (string, bool) { return "", false }
func (g *fakeGroup) GetGoType(string) (string, bool) {
	return "", false
}
func (g *fakeGroup) ListDimensions() []string           { return nil }
func (g *fakeGroup) GetDimension(string) (uint64, bool) { return 0, false }
func (g *fakeGroup) GetVarGetter(string) (api.VarGetter, error) {
	return nil, fmt.Errorf("not implemented")
}

func (g *fakeGroup) ListVariables() []string {
	names := make([]string, 0, len(g.vars))
	for name := range g.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (g *fakeGroup) GetVariable(name string) (*api.Variable, error) {
	v, ok := g.vars[name]
	if !ok {
		return nil, fmt.Errorf("variable %s not found", name)
	}
	return v, nil
}

func (g *fakeGroup) GetGroup(name string) (api.Group, error) {
	sub, ok := g.groups[name]
	if !ok {
		return nil, fmt.Errorf("group %s not found", name)
	}
	return sub, nil
}

// newFakeSO2Root builds the group tree of a minimal 2x2 OMSO2 file.
func newFakeSO2Root() *fakeGroup {
	dataFields := &fakeGroup{vars: map[string]*api.Variable{
		"ColumnAmountSO2_PBL": {
			Values: [][]float32{{1, float32(testFill)}, {3, 4}},
			Attributes: fakeAttrs{
				"_FillValue":  []float32{float32(testFill)},
				"ScaleFactor": float64(2),
				"Units":       "DU",
			},
		},
	}}
	geoFields := &fakeGroup{vars: map[string]*api.Variable{
		"Latitude":  {Values: [][]float32{{10, 10}, {11, 11}}, Attributes: fakeAttrs{}},
		"Longitude": {Values: [][]float32{{20, 21}, {20, 21}}, Attributes: fakeAttrs{}},
		"Time":      {Values: []float64{1, 2}, Attributes: fakeAttrs{}},
	}}
	swath := &fakeGroup{groups: map[string]*fakeGroup{
		"Data Fields":        dataFields,
		"Geolocation Fields": geoFields,
	}}
	return &fakeGroup{groups: map[string]*fakeGroup{
		"HDFEOS": {groups: map[string]*fakeGroup{
			"SWATHS": {groups: map[string]*fakeGroup{
				"OMI Total Column Amount SO2": swath,
			}},
		}},
	}}
}

func (g *fakeGroup) so2Group(leaf string) *fakeGroup {
	return g.groups["HDFEOS"].groups["SWATHS"].groups["OMI Total Column Amount SO2"].groups[leaf]
}

func TestReadSwathGroupTree(t *testing.T) {
	s, err := readSwath(newFakeSO2Root(), ProductSO2, "OMI-Aura_L2-OMSO2_test.he5")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s.Data.Shape, []int{2, 2}) {
		t.Fatalf("shape: have %v, want [2 2]", s.Data.Shape)
	}
	if s.Units != "DU" {
		t.Errorf("units: have %q, want DU", s.Units)
	}
	// Scale factor 2 applies to valid pixels only.
	if v := s.Data.Get(0, 0); v != 2 {
		t.Errorf("pixel (0,0): have %g, want 2", v)
	}
	if v := s.Data.Get(0, 1); !math.IsNaN(v) {
		t.Errorf("fill pixel (0,1): have %g, want NaN", v)
	}
	if len(s.Time) != 2 || !s.Time[0].Equal(TAI93ToUTC(1)) {
		t.Errorf("times: have %v", s.Time)
	}
}

func TestReadSwathMissingGroup(t *testing.T) {
	_, err := readSwath(&fakeGroup{}, ProductSO2, "OMI-Aura_L2-OMSO2_test.he5")
	if err == nil {
		t.Fatal("expected a lookup error for a file without swath groups")
	}
	if !strings.Contains(err.Error(), "HDFEOS") {
		t.Errorf("error should name the missing group path; have %v", err)
	}
}

func TestReadSwathMissingSDS(t *testing.T) {
	root := newFakeSO2Root()
	delete(root.so2Group("Data Fields").vars, "ColumnAmountSO2_PBL")
	_, err := readSwath(root, ProductSO2, "OMI-Aura_L2-OMSO2_test.he5")
	if err == nil {
		t.Fatal("expected a lookup error for a missing SDS")
	}
	if !strings.Contains(err.Error(), "ColumnAmountSO2_PBL") {
		t.Errorf("error should name the missing SDS; have %v", err)
	}
}

func TestReadSwathMalformedTime(t *testing.T) {
	// A Time field with the wrong number of scanlines is an error, not
	// an absent field.
	root := newFakeSO2Root()
	root.so2Group("Geolocation Fields").vars["Time"].Values = []float64{1}
	if _, err := readSwath(root, ProductSO2, "OMI-Aura_L2-OMSO2_test.he5"); err == nil {
		t.Error("expected an error for a Time field with the wrong shape")
	}

	// A file with no Time field at all reads fine, with nil times.
	delete(root.so2Group("Geolocation Fields").vars, "Time")
	s, err := readSwath(root, ProductSO2, "OMI-Aura_L2-OMSO2_test.he5")
	if err != nil {
		t.Fatal(err)
	}
	if s.Time != nil {
		t.Errorf("times: have %v, want nil", s.Time)
	}
}

func TestListGroupFields(t *testing.T) {
	infos, err := listGroupFields(newFakeSO2Root(), ProductSO2, "OMI-Aura_L2-OMSO2_test.he5", "Data Fields")
	if err != nil {
		t.Fatal(err)
	}
	want := []SDSInfo{{Name: "ColumnAmountSO2_PBL", Dims: []int{2, 2}}}
	if !reflect.DeepEqual(infos, want) {
		t.Errorf("have %v, want %v", infos, want)
	}

	if _, err := listGroupFields(&fakeGroup{}, ProductSO2, "x.he5", "Data Fields"); err == nil {
		t.Error("expected a lookup error for a file without swath groups")
	}
}

func TestReadSwathMissingFile(t *testing.T) {
	if _, err := ReadSwath("no_such_OMSO2_file.he5"); err == nil {
		t.Error("expected a file-access error")
	}
	if _, err := ReadSwath("not_an_omi_file.he5"); err == nil {
		t.Error("expected a product-detection error")
	}
}

func TestReadSwathMissingFileNoOutput(t *testing.T) {
	// A failed read must not leave a partially-initialized swath.
	s, err := ReadSwath("missing_OMNO2.he5")
	if err == nil {
		t.Fatal("expected an error")
	}
	if s != nil {
		t.Errorf("swath should be nil on error; have %+v", s)
	}
}
