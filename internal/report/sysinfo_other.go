//go:build !linux

package report

import (
	"errors"
	"time"
)

func readSysinfo() (MemoryInfo, time.Duration, error) {
	return MemoryInfo{}, 0, errors.New("sysinfo not supported on this platform")
}
