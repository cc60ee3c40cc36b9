package emu

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
)

// PingResult holds the counters parsed from one ping run
type PingResult struct {
	Sent     int
	Received int
	RTTMin   float64
	RTTAvg   float64
	RTTMax   float64
	RTTMDev  float64
}

var (
	pingCountRe = regexp.MustCompile(`(\d+) packets transmitted, (\d+) (?:packets )?received`)
	pingRTTRe   = regexp.MustCompile(`(?:rtt|round-trip) min/avg/max/(?:mdev|stddev) = ([\d.]+)/([\d.]+)/([\d.]+)/([\d.]+) ms`)
)

// PingFull measures round-trip latency from src to dst. The boolean is
// false when ping failed or its output could not be parsed; callers
// treat that as total loss rather than an error.
func (n *Network) PingFull(ctx context.Context, src, dst *Host, count int) (PingResult, bool) {
	out, err := src.Cmd(ctx, fmt.Sprintf("ping -c %d -W 2 %s", count, dst.IP))
	if err != nil && out == "" {
		return PingResult{}, false
	}
	return ParsePingOutput(out)
}

// ParsePingOutput extracts packet counters and RTT statistics from the
// text output of ping
func ParsePingOutput(out string) (PingResult, bool) {
	counts := pingCountRe.FindStringSubmatch(out)
	if counts == nil {
		return PingResult{}, false
	}
	sent, _ := strconv.Atoi(counts[1])
	received, _ := strconv.Atoi(counts[2])
	res := PingResult{Sent: sent, Received: received}

	if rtt := pingRTTRe.FindStringSubmatch(out); rtt != nil {
		res.RTTMin, _ = strconv.ParseFloat(rtt[1], 64)
		res.RTTAvg, _ = strconv.ParseFloat(rtt[2], 64)
		res.RTTMax, _ = strconv.ParseFloat(rtt[3], 64)
		res.RTTMDev, _ = strconv.ParseFloat(rtt[4], 64)
	}
	return res, true
}
