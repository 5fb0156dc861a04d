package util

import (
	"strconv"
)

// ParseID parses a path parameter as a positive ID.
func ParseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
