package geometry

import (
	"math"
	"strconv"
)

// UnitsPerInch is the number of layout units in one printed inch.
const UnitsPerInch = 100

// UnitsToCSS renders a layout dimension as a CSS inch length ("1.5in").
func UnitsToCSS(v float64) string {
	return strconv.FormatFloat(v/UnitsPerInch, 'f', -1, 64) + "in"
}

// HumanInches renders a dimension rounded up to whole inches ("4in").
// Display only; never feed it back into pixel arithmetic.
func HumanInches(v float64) string {
	return strconv.Itoa(int(math.Ceil(v/UnitsPerInch))) + "in"
}
