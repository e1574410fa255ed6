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

// Command swathmap is a command-line viewer for OMI NO2 and SO2
// satellite swaths.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/swathmap/swathmaputil"
)

func main() {
	if err := swathmaputil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
