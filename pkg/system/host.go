package system

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
)

// LogicalCPUs returns the number of logical CPUs on this host. Falls back
// to runtime.NumCPU when gopsutil cannot read the platform counters.
func LogicalCPUs() int {
	count, err := cpu.Counts(true)
	if err != nil || count <= 0 {
		return runtime.NumCPU()
	}
	return count
}
