package util

import (
	"math"
)

//TimeFormat stores a correctly formatted timestamp
const TimeFormat string = "2006-01-02-T15:04:05-0700"

//SortableFloat64 functions that allow a golang sort of float64s
type SortableFloat64 []float64

func (s SortableFloat64) Len() int           { return len(s) }
func (s SortableFloat64) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s SortableFloat64) Less(i, j int) bool { return s[i] < s[j] }

//Abs returns two's complement 64 bit absolute value
func Abs(a int64) int64 {
	mask := a >> 63
	a = a ^ mask
	return a - mask
}

//Round returns rounded int64
func Round(f float64) int64 {
	return int64(math.Floor(f + .5))
}

//RoundTo rounds a float64 to the given number of decimal places
func RoundTo(f float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Floor(f*shift+.5) / shift
}

//Min returns the smaller of two integers
func Min(a int, b int) int {
	if a < b {
		return a
	}
	return b
}

//Max returns the larger of two integers
func Max(a int, b int) int {
	if a > b {
		return a
	}
	return b
}

//ClampFloat64 bounds a float64 to the closed interval [lo, hi]
func ClampFloat64(f float64, lo float64, hi float64) float64 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}

//StringInSlice returns true if the string is an element of the array
func StringInSlice(value string, list []string) bool {
	for _, entry := range list {
		if entry == value {
			return true
		}
	}
	return false
}

//Mean returns the arithmetic mean of a float64 slice. Returns 0 for an
//empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := float64(0)
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

//StdDev returns the population standard deviation of a float64 slice
//about the supplied mean
func StdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sd := float64(0)
	for _, v := range values {
		sd += math.Pow(v-mean, 2)
	}
	return math.Sqrt(sd / float64(len(values)))
}
