package daemon

import (
	"context"

	"github.com/shirou/gopsutil/v4/host"
)

// HostInfo identifies the machine the daemon runs on.
type HostInfo struct {
	Hostname      string `json:"hostname" yaml:"hostname"`
	OS            string `json:"os" yaml:"os"`
	Platform      string `json:"platform" yaml:"platform"`
	KernelVersion string `json:"kernel_version" yaml:"kernel_version"`
	UptimeSeconds uint64 `json:"uptime_seconds" yaml:"uptime_seconds"`
}

// ReadHostInfo queries the operating system.
func ReadHostInfo(ctx context.Context) (*HostInfo, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, err
	}
	return &HostInfo{
		Hostname:      info.Hostname,
		OS:            info.OS,
		Platform:      info.Platform,
		KernelVersion: info.KernelVersion,
		UptimeSeconds: info.Uptime,
	}, nil
}
