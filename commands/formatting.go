package commands

import (
	"strconv"
)

// helper functions for formatting floats and integers
func f(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}
func i(i int) string {
	return strconv.Itoa(i)
}
