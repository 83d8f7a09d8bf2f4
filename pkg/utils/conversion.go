package utils

import "strconv"

// StringToUint64 parses a numeric string into uint64.
// Handy for IDs coming from URL parameters.
func StringToUint64(str string) uint64 {
	val, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return 0 // 0 never matches a real row
	}
	return val
}
