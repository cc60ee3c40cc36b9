package emu

import (
	"context"
	"fmt"

	"github.com/edgevision/camnet-dataset/pkg/logger"
)

// Host is a virtual host backed by a network namespace
type Host struct {
	Name string
	CPU  float64
	IP   string

	net      *Network
	intfSeq  int
	mainIntf string
}

// Switch is an Open vSwitch bridge
type Switch struct {
	Name string

	net     *Network
	intfSeq int
}

// Link connects two nodes with shaped bandwidth, delay and queue size
type Link struct {
	Src          string
	Dst          string
	Bandwidth    float64 // Mbps
	Delay        string  // e.g. "5ms"
	MaxQueueSize int     // packets

	SrcIntf string
	DstIntf string
}

// Network is one emulated topology instance. It is built fresh per
// scenario and torn down after metrics collection; nothing persists
// across scenarios.
type Network struct {
	runner   Runner
	hosts    []*Host
	switches []*Switch
	links    []*Link
	hostSeq  int
	started  bool
}

// NewNetwork creates an empty network bound to the given runner
func NewNetwork(runner Runner) *Network {
	return &Network{runner: runner}
}

// Hosts returns the hosts in creation order
func (n *Network) Hosts() []*Host { return n.hosts }

// Switches returns the switches in creation order
func (n *Network) Switches() []*Switch { return n.switches }

// Links returns the links in creation order
func (n *Network) Links() []*Link { return n.links }

// Started reports whether Start has been called
func (n *Network) Started() bool { return n.started }

// AddHost creates a network namespace for a new host and assigns it the
// next address in 10.0.0.0/8
func (n *Network) AddHost(ctx context.Context, name string, cpu float64) (*Host, error) {
	if _, err := n.runner.Run(ctx, "ip", "netns", "add", name); err != nil {
		return nil, fmt.Errorf("failed to create namespace for host %s: %w", name, err)
	}
	n.hostSeq++
	h := &Host{
		Name: name,
		CPU:  cpu,
		IP:   fmt.Sprintf("10.0.0.%d", n.hostSeq),
		net:  n,
	}
	n.hosts = append(n.hosts, h)
	return h, nil
}

// AddSwitch creates an OVS bridge
func (n *Network) AddSwitch(ctx context.Context, name string) (*Switch, error) {
	if _, err := n.runner.Run(ctx, "ovs-vsctl", "add-br", name); err != nil {
		return nil, fmt.Errorf("failed to create switch %s: %w", name, err)
	}
	s := &Switch{Name: name, net: n}
	n.switches = append(n.switches, s)
	return s, nil
}

// LinkParams carries the shaping parameters for one link
type LinkParams struct {
	Bandwidth    float64
	Delay        string
	MaxQueueSize int
}

// node is either a *Host or a *Switch
type node interface {
	nodeName() string
	nextIntf() string
	attach(ctx context.Context, intf string) error
}

func (h *Host) nodeName() string { return h.Name }

func (h *Host) nextIntf() string {
	intf := fmt.Sprintf("%s-eth%d", h.Name, h.intfSeq)
	h.intfSeq++
	return intf
}

// attach moves the interface into the host namespace, addresses it and
// brings it up. The first attached interface carries the host address.
func (h *Host) attach(ctx context.Context, intf string) error {
	r := h.net.runner
	if _, err := r.Run(ctx, "ip", "link", "set", intf, "netns", h.Name); err != nil {
		return fmt.Errorf("failed to move %s into %s: %w", intf, h.Name, err)
	}
	if h.mainIntf == "" {
		h.mainIntf = intf
		if _, err := r.Run(ctx, "ip", "netns", "exec", h.Name,
			"ip", "addr", "add", h.IP+"/8", "dev", intf); err != nil {
			return fmt.Errorf("failed to address %s: %w", intf, err)
		}
	}
	if _, err := r.Run(ctx, "ip", "netns", "exec", h.Name, "ip", "link", "set", intf, "up"); err != nil {
		return fmt.Errorf("failed to bring up %s: %w", intf, err)
	}
	return nil
}

// MainIntf returns the interface carrying the host address, or ""
// before the host is linked to anything.
func (h *Host) MainIntf() string { return h.mainIntf }

func (s *Switch) nodeName() string { return s.Name }

func (s *Switch) nextIntf() string {
	intf := fmt.Sprintf("%s-eth%d", s.Name, s.intfSeq)
	s.intfSeq++
	return intf
}

func (s *Switch) attach(ctx context.Context, intf string) error {
	r := s.net.runner
	if _, err := r.Run(ctx, "ovs-vsctl", "add-port", s.Name, intf); err != nil {
		return fmt.Errorf("failed to attach %s to switch %s: %w", intf, s.Name, err)
	}
	if _, err := r.Run(ctx, "ip", "link", "set", intf, "up"); err != nil {
		return fmt.Errorf("failed to bring up %s: %w", intf, err)
	}
	return nil
}

// AddLink wires two nodes with a veth pair and applies netem delay,
// tbf rate shaping and a pfifo queue limit to both ends
func (n *Network) AddLink(ctx context.Context, a, b node, params LinkParams) (*Link, error) {
	srcIntf := a.nextIntf()
	dstIntf := b.nextIntf()

	if _, err := n.runner.Run(ctx, "ip", "link", "add", srcIntf,
		"type", "veth", "peer", "name", dstIntf); err != nil {
		return nil, fmt.Errorf("failed to create veth pair %s/%s: %w", srcIntf, dstIntf, err)
	}
	if err := a.attach(ctx, srcIntf); err != nil {
		return nil, err
	}
	if err := b.attach(ctx, dstIntf); err != nil {
		return nil, err
	}
	if err := n.shape(ctx, a, srcIntf, params); err != nil {
		return nil, err
	}
	if err := n.shape(ctx, b, dstIntf, params); err != nil {
		return nil, err
	}

	link := &Link{
		Src:          a.nodeName(),
		Dst:          b.nodeName(),
		Bandwidth:    params.Bandwidth,
		Delay:        params.Delay,
		MaxQueueSize: params.MaxQueueSize,
		SrcIntf:      srcIntf,
		DstIntf:      dstIntf,
	}
	n.links = append(n.links, link)
	return link, nil
}

// shape applies the link parameters to one interface end
func (n *Network) shape(ctx context.Context, nd node, intf string, params LinkParams) error {
	netem := []string{"tc", "qdisc", "add", "dev", intf, "root", "handle", "1:",
		"netem", "delay", params.Delay, "limit", fmt.Sprintf("%d", params.MaxQueueSize)}
	tbf := []string{"tc", "qdisc", "add", "dev", intf, "parent", "1:1", "handle", "10:",
		"tbf", "rate", fmt.Sprintf("%gmbit", params.Bandwidth),
		"burst", "32kbit", "latency", "400ms"}

	for _, args := range [][]string{netem, tbf} {
		cmd := args
		if h, ok := nd.(*Host); ok {
			cmd = append([]string{"ip", "netns", "exec", h.Name}, args...)
		}
		if _, err := n.runner.Run(ctx, cmd[0], cmd[1:]...); err != nil {
			return fmt.Errorf("failed to shape %s: %w", intf, err)
		}
	}
	return nil
}

// Start brings the network online. Interfaces are already up after
// construction; starting raises loopbacks and marks the network live.
func (n *Network) Start(ctx context.Context) error {
	for _, h := range n.hosts {
		if _, err := n.runner.Run(ctx, "ip", "netns", "exec", h.Name,
			"ip", "link", "set", "lo", "up"); err != nil {
			return fmt.Errorf("failed to start host %s: %w", h.Name, err)
		}
	}
	n.started = true
	logger.Debug("network started", "hosts", len(n.hosts), "switches", len(n.switches), "links", len(n.links))
	return nil
}

// Stop tears the network down: namespaces and bridges are removed.
// Errors are collected but teardown continues past them.
func (n *Network) Stop(ctx context.Context) error {
	var firstErr error
	for _, h := range n.hosts {
		if _, err := n.runner.Run(ctx, "ip", "netns", "delete", h.Name); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to delete namespace %s: %w", h.Name, err)
		}
	}
	for _, s := range n.switches {
		if _, err := n.runner.Run(ctx, "ovs-vsctl", "--if-exists", "del-br", s.Name); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to delete switch %s: %w", s.Name, err)
		}
	}
	n.started = false
	return firstErr
}

// Cmd runs a shell command inside the host's namespace
func (h *Host) Cmd(ctx context.Context, script string) (string, error) {
	return h.net.runner.Run(ctx, "ip", "netns", "exec", h.Name, "sh", "-c", script)
}
