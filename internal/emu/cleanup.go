package emu

import (
	"context"
	"strings"

	"github.com/edgevision/camnet-dataset/pkg/logger"
)

// Cleanup removes leftover emulator state from previous runs: stray
// traffic processes, all network namespaces and all OVS bridges. Every
// step is best-effort; failures are logged at debug level and skipped,
// since a clean machine makes most of these commands fail harmlessly.
func Cleanup(ctx context.Context, runner Runner) {
	for _, proc := range []string{"iperf", "ping"} {
		if out, err := runner.Run(ctx, "pkill", "-9", proc); err != nil {
			logger.Debug("cleanup pkill", "proc", proc, "output", out)
		}
	}

	out, err := runner.Run(ctx, "ip", "netns", "list")
	if err == nil {
		for _, line := range strings.Split(out, "\n") {
			name := strings.Fields(line)
			if len(name) == 0 {
				continue
			}
			if _, err := runner.Run(ctx, "ip", "netns", "delete", name[0]); err != nil {
				logger.Debug("cleanup netns delete failed", "ns", name[0], "error", err)
			}
		}
	}

	out, err = runner.Run(ctx, "ovs-vsctl", "list-br")
	if err == nil {
		for _, br := range strings.Fields(out) {
			if _, err := runner.Run(ctx, "ovs-vsctl", "--if-exists", "del-br", br); err != nil {
				logger.Debug("cleanup del-br failed", "bridge", br, "error", err)
			}
		}
	}
}
