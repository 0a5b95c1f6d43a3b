// Package sysinfo reports the host the renderer runs on.
package sysinfo

import (
	"bytes"
	"fmt"
	"runtime"

	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
)

const gigabyte = 1024 * 1024 * 1024

// Info describes the CPU and memory of the host
type Info struct {
	CPUModel        string
	ClockGHz        float64
	PhysicalCores   int
	LogicalCores    int
	TotalMemory     uint64
	AvailableMemory uint64
	GoVersion       string
	Platform        string
}

// Collect queries the host. Fields gopsutil cannot read are left zero.
func Collect() (Info, error) {
	info := Info{
		GoVersion:    runtime.Version(),
		Platform:     runtime.GOOS + "/" + runtime.GOARCH,
		LogicalCores: runtime.NumCPU(),
	}

	cpuInfo, err := cpu.Info()
	if err != nil {
		return info, fmt.Errorf("failed to read CPU info: %w", err)
	}
	if len(cpuInfo) > 0 {
		info.CPUModel = cpuInfo[0].ModelName
		info.ClockGHz = cpuInfo[0].Mhz / 1000
	}
	if n, err := cpu.Counts(false); err == nil {
		info.PhysicalCores = n
	}
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		info.LogicalCores = n
	}

	memInfo, err := mem.VirtualMemory()
	if err != nil {
		return info, fmt.Errorf("failed to read memory info: %w", err)
	}
	info.TotalMemory = memInfo.Total
	info.AvailableMemory = memInfo.Available
	return info, nil
}

// LogicalCores returns the number of hardware threads, falling back to
// runtime.NumCPU when gopsutil cannot tell
func LogicalCores() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// Table renders the info as a two column table
func (i Info) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Host", "Value"})

	model := i.CPUModel
	if model == "" {
		model = "unknown"
	}
	table.Append([]string{"CPU", model})
	if i.ClockGHz > 0 {
		table.Append([]string{"Clock", fmt.Sprintf("%.2f GHz", i.ClockGHz)})
	}
	table.Append([]string{"Cores", fmt.Sprintf("%d physical, %d logical", i.PhysicalCores, i.LogicalCores)})
	table.Append([]string{"Memory", fmt.Sprintf("%.1f GB total, %.1f GB available",
		float64(i.TotalMemory)/gigabyte, float64(i.AvailableMemory)/gigabyte)})
	table.Append([]string{"Go", i.GoVersion})
	table.Append([]string{"Platform", i.Platform})
	table.Render()
	return buf.String()
}
