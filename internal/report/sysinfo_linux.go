//go:build linux

package report

import (
	"time"

	"golang.org/x/sys/unix"
)

func readSysinfo() (MemoryInfo, time.Duration, error) {
	var si unix.Sysinfo_t
	if err := unix.Sysinfo(&si); err != nil {
		return MemoryInfo{}, 0, err
	}

	unit := uint64(si.Unit)
	total := uint64(si.Totalram) * unit
	free := uint64(si.Freeram) * unit
	return MemoryInfo{Total: total, Free: free, Used: total - free}, time.Duration(si.Uptime) * time.Second, nil
}
