package emu

import (
	"context"
	"testing"
)

const pingOutput = `PING 10.0.0.16 (10.0.0.16) 56(84) bytes of data.
64 bytes from 10.0.0.16: icmp_seq=1 ttl=64 time=4.21 ms
64 bytes from 10.0.0.16: icmp_seq=2 ttl=64 time=4.05 ms
64 bytes from 10.0.0.16: icmp_seq=3 ttl=64 time=4.11 ms

--- 10.0.0.16 ping statistics ---
3 packets transmitted, 3 received, 0% packet loss, time 2003ms
rtt min/avg/max/mdev = 4.050/4.123/4.210/0.067 ms
`

const pingLossOutput = `PING 10.0.0.16 (10.0.0.16) 56(84) bytes of data.

--- 10.0.0.16 ping statistics ---
5 packets transmitted, 3 received, 40% packet loss, time 4010ms
rtt min/avg/max/mdev = 8.120/9.456/11.002/1.203 ms
`

func TestParsePingOutput(t *testing.T) {
	res, ok := ParsePingOutput(pingOutput)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if res.Sent != 3 || res.Received != 3 {
		t.Errorf("expected 3/3 packets, got %d/%d", res.Sent, res.Received)
	}
	if res.RTTAvg != 4.123 {
		t.Errorf("expected avg rtt 4.123, got %f", res.RTTAvg)
	}
	if res.RTTMDev != 0.067 {
		t.Errorf("expected mdev 0.067, got %f", res.RTTMDev)
	}
}

func TestParsePingOutputWithLoss(t *testing.T) {
	res, ok := ParsePingOutput(pingLossOutput)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if res.Sent != 5 || res.Received != 3 {
		t.Errorf("expected 5/3 packets, got %d/%d", res.Sent, res.Received)
	}
}

func TestParsePingOutputGarbage(t *testing.T) {
	if _, ok := ParsePingOutput("connect: Network is unreachable"); ok {
		t.Error("expected parse failure on unreachable output")
	}
	if _, ok := ParsePingOutput(""); ok {
		t.Error("expected parse failure on empty output")
	}
}

func TestPingFull(t *testing.T) {
	r := &fakeRunner{outputs: map[string]string{
		"ip netns exec cam1 sh -c ping": pingOutput,
	}}
	net := NewNetwork(r)
	ctx := context.Background()

	cam, _ := net.AddHost(ctx, "cam1", 0.1)
	edge, _ := net.AddHost(ctx, "edge", 0.8)

	res, ok := net.PingFull(ctx, cam, edge, 3)
	if !ok {
		t.Fatal("expected ping to succeed")
	}
	if res.RTTAvg != 4.123 {
		t.Errorf("expected avg rtt 4.123, got %f", res.RTTAvg)
	}
	if !r.ran("ping -c 3 -W 2 10.0.0.2") {
		t.Error("expected ping command against edge IP")
	}
}
