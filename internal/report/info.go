package report

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
)

// MemoryInfo holds memory figures in bytes
type MemoryInfo struct {
	Total uint64 `json:"total"`
	Free  uint64 `json:"free"`
	Used  uint64 `json:"used"`
}

// SystemInfo describes the host acc runs on
type SystemInfo struct {
	Platform  string     `json:"platform"`
	Arch      string     `json:"arch"`
	Hostname  string     `json:"hostname"`
	CPUs      int        `json:"cpus"`
	Memory    MemoryInfo `json:"memory"`
	Uptime    int64      `json:"uptime"` // seconds
	GoVersion string     `json:"goVersion"`
}

// CollectSystemInfo gathers host information. Memory and uptime are zero
// where the platform does not expose them.
func CollectSystemInfo() SystemInfo {
	hostname, _ := os.Hostname()
	info := SystemInfo{
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
		Hostname:  hostname,
		CPUs:      runtime.NumCPU(),
		GoVersion: runtime.Version(),
	}
	if mem, uptime, err := readSysinfo(); err == nil {
		info.Memory = mem
		info.Uptime = int64(uptime / time.Second)
	}
	return info
}

// Info prints system information
func (p *Printer) Info(info SystemInfo) {
	p.println(p.title.Render("System Information"))
	p.rule()
	p.field("Platform:", info.Platform)
	p.field("Architecture:", info.Arch)
	p.field("Hostname:", info.Hostname)
	p.field("CPUs:", fmt.Sprint(info.CPUs))
	p.field("Memory:", humanize.IBytes(info.Memory.Used)+" / "+humanize.IBytes(info.Memory.Total))
	p.field("Uptime:", FormatUptime(info.Uptime))
	p.field("Go Version:", info.GoVersion)
}

func (p *Printer) field(label, value string) {
	p.println(p.label.Render(label) + " " + value)
}

// FormatUptime renders seconds as "<h>h <m>m"
func FormatUptime(seconds int64) string {
	return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
}
