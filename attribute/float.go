package attribute

import "math"

func float64ToRaw(f float64) uint64 { return math.Float64bits(f) }
func rawToFloat64(r uint64) float64 { return math.Float64frombits(r) }
