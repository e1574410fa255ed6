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

import "time"

// tai93Base is the zero point of OMI scan times. The product format
// counts seconds from the start of 1993 as observed one second before
// midnight UTC on December 31, 1992.
var tai93Base = time.Date(1992, time.December, 31, 23, 59, 59, 0, time.UTC)

// TAI93ToUTC converts an OMI scan time, in seconds since the TAI-93
// epoch, to UTC.
func TAI93ToUTC(sec float64) time.Time {
	return tai93Base.Add(time.Duration(sec * float64(time.Second)))
}

// UTCToTAI93 converts a UTC time back to seconds since the TAI-93
// epoch, for writing times out.
func UTCToTAI93(t time.Time) float64 {
	return t.Sub(tai93Base).Seconds()
}
