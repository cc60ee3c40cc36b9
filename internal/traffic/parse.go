package traffic

import (
	"regexp"
	"strconv"
)

var (
	iperfBandwidthRe = regexp.MustCompile(`([\d.]+)\s+Mbits/sec`)
	iperfJitterRe    = regexp.MustCompile(`([\d.]+)\s+ms\s+\d+/\d+`)
	iperfLossRe      = regexp.MustCompile(`\((\d+)/(\d+)\)`)
)

// ParseIperfBandwidth extracts the reported bandwidth in Mbps from
// iperf output; 0 when absent.
func ParseIperfBandwidth(out string) float64 {
	m := iperfBandwidthRe.FindStringSubmatch(out)
	if m == nil {
		return 0.0
	}
	v, _ := strconv.ParseFloat(m[1], 64)
	return v
}

// ParseIperfJitter extracts the UDP jitter in ms; 0 when absent
func ParseIperfJitter(out string) float64 {
	m := iperfJitterRe.FindStringSubmatch(out)
	if m == nil {
		return 0.0
	}
	v, _ := strconv.ParseFloat(m[1], 64)
	return v
}

// ParseIperfPacketLoss extracts UDP datagram loss as a percentage from
// the "(lost/total)" counter pair; 0 when absent or total is zero.
func ParseIperfPacketLoss(out string) float64 {
	m := iperfLossRe.FindStringSubmatch(out)
	if m == nil {
		return 0.0
	}
	lost, _ := strconv.Atoi(m[1])
	total, _ := strconv.Atoi(m[2])
	if total == 0 {
		return 0.0
	}
	return float64(lost) / float64(total) * 100
}
