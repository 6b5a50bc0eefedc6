package platform

import "time"

// Clock supplies the timestamp every operation reads once at entry. The
// platform assumes it is monotonically non-decreasing.
type Clock interface {
	Now() int64
}

// SystemClock reads the wall clock in unix seconds.
type SystemClock struct{}

func (SystemClock) Now() int64 {
	return time.Now().Unix()
}
