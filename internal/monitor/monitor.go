// Package monitor samples live queue and interface statistics from a
// running deployment. Sampling is best effort: a host that cannot be
// queried contributes zero-valued samples rather than failing the run.
package monitor

import (
	"context"
	"regexp"
	"strconv"
	"time"

	"github.com/edgevision/camnet-dataset/internal/emu"
	"github.com/edgevision/camnet-dataset/internal/topology"
	"github.com/edgevision/camnet-dataset/pkg/logger"
)

var backlogRe = regexp.MustCompile(`backlog\s+\d+b\s+(\d+)p`)

// QueueMonitor periodically samples qdisc backlog depth on every host
// main interface and every switch-side port of a deployment.
type QueueMonitor struct {
	Runner   emu.Runner
	Interval time.Duration

	sleep func(time.Duration)
}

// NewQueueMonitor creates a monitor sampling once per second
func NewQueueMonitor(runner emu.Runner) *QueueMonitor {
	return &QueueMonitor{
		Runner:   runner,
		Interval: time.Second,
		sleep:    time.Sleep,
	}
}

// Run samples the deployment for the given duration and returns the
// average backlog, in packets, per monitored interface. Hosts are
// keyed by host name, switch ports by interface name.
func (m *QueueMonitor) Run(ctx context.Context, dep *topology.Deployment, duration time.Duration) map[string]float64 {
	samples := newSampleSet()
	rounds := int(duration / m.Interval)
	if rounds < 1 {
		rounds = 1
	}

	switchPorts := switchPortIntfs(dep.Net)

	for i := 0; i < rounds; i++ {
		if ctx.Err() != nil {
			break
		}
		for _, h := range dep.Net.Hosts() {
			samples.Add(h.Name, m.sampleHost(ctx, h))
		}
		for _, intf := range switchPorts {
			samples.Add(intf, m.sampleIntf(ctx, intf))
		}
		if i < rounds-1 {
			m.sleep(m.Interval)
		}
	}

	avg := samples.Averages()
	logger.Debug("queue monitoring complete", "interfaces", len(avg), "rounds", rounds)
	return avg
}

// sampleHost reads the backlog on the host's addressed interface from
// inside its namespace
func (m *QueueMonitor) sampleHost(ctx context.Context, h *emu.Host) float64 {
	intf := h.MainIntf()
	if intf == "" {
		return 0
	}
	out, err := h.Cmd(ctx, "tc -s qdisc show dev "+intf)
	if err != nil {
		return 0
	}
	return parseBacklog(out)
}

// sampleIntf reads the backlog on a root-namespace interface
func (m *QueueMonitor) sampleIntf(ctx context.Context, intf string) float64 {
	out, err := m.Runner.Run(ctx, "tc", "-s", "qdisc", "show", "dev", intf)
	if err != nil {
		return 0
	}
	return parseBacklog(out)
}

// parseBacklog extracts the queued packet count from tc qdisc output,
// 0 when the backlog line is absent
func parseBacklog(out string) float64 {
	match := backlogRe.FindStringSubmatch(out)
	if match == nil {
		return 0
	}
	pkts, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0
	}
	return pkts
}

// switchPortIntfs lists the switch-side interface of every link, in
// link creation order
func switchPortIntfs(net *emu.Network) []string {
	switches := make(map[string]bool, len(net.Switches()))
	for _, s := range net.Switches() {
		switches[s.Name] = true
	}
	var intfs []string
	for _, l := range net.Links() {
		if switches[l.Src] {
			intfs = append(intfs, l.SrcIntf)
		}
		if switches[l.Dst] {
			intfs = append(intfs, l.DstIntf)
		}
	}
	return intfs
}
