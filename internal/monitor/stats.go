package monitor

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/edgevision/camnet-dataset/internal/emu"
)

var (
	rxRe   = regexp.MustCompile(`(?s)RX:.*?bytes\s+(\d+)\s+packets\s+(\d+).*?dropped\s+(\d+)`)
	txRe   = regexp.MustCompile(`(?s)TX:.*?bytes\s+(\d+)\s+packets\s+(\d+).*?dropped\s+(\d+)`)
	flowRe = regexp.MustCompile(`n_packets=(\d+).*?n_bytes=(\d+)`)
)

// InterfaceStats is one counter snapshot of an interface
type InterfaceStats struct {
	RXBytes   int64
	RXPackets int64
	RXDropped int64
	TXBytes   int64
	TXPackets int64
	TXDropped int64
}

// ParseInterfaceStats extracts RX/TX counters from `ip -s link show`
// output. Counters that cannot be located stay zero.
func ParseInterfaceStats(out string) InterfaceStats {
	var st InterfaceStats
	if m := rxRe.FindStringSubmatch(out); m != nil {
		st.RXBytes = parseInt64(m[1])
		st.RXPackets = parseInt64(m[2])
		st.RXDropped = parseInt64(m[3])
	}
	if m := txRe.FindStringSubmatch(out); m != nil {
		st.TXBytes = parseInt64(m[1])
		st.TXPackets = parseInt64(m[2])
		st.TXDropped = parseInt64(m[3])
	}
	return st
}

// HostInterfaceStats snapshots the counters of the host's addressed
// interface. A host that cannot be queried reports zeros.
func HostInterfaceStats(ctx context.Context, h *emu.Host) InterfaceStats {
	intf := h.MainIntf()
	if intf == "" {
		return InterfaceStats{}
	}
	out, err := h.Cmd(ctx, "ip -s link show "+intf)
	if err != nil {
		return InterfaceStats{}
	}
	return ParseInterfaceStats(out)
}

// UtilizationMbps derives the bandwidth carried by an interface from
// two counter snapshots taken interval apart
func UtilizationMbps(prev, cur InterfaceStats, interval time.Duration) float64 {
	if interval <= 0 {
		return 0
	}
	deltaBytes := (cur.RXBytes - prev.RXBytes) + (cur.TXBytes - prev.TXBytes)
	if deltaBytes < 0 {
		return 0
	}
	return float64(deltaBytes) * 8 / interval.Seconds() / 1e6
}

// FlowStat is one flow entry from a switch flow table dump
type FlowStat struct {
	Packets int64
	Bytes   int64
}

// SwitchFlowStats dumps the flow table of an OVS bridge and returns
// the per-flow packet and byte counters. A bridge that cannot be
// queried reports no flows.
func SwitchFlowStats(ctx context.Context, runner emu.Runner, bridge string) []FlowStat {
	out, err := runner.Run(ctx, "ovs-ofctl", "dump-flows", bridge)
	if err != nil {
		return nil
	}
	var flows []FlowStat
	for _, line := range strings.Split(out, "\n") {
		m := flowRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		flows = append(flows, FlowStat{
			Packets: parseInt64(m[1]),
			Bytes:   parseInt64(m[2]),
		})
	}
	return flows
}

func parseInt64(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
