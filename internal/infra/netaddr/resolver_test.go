package netaddr

import (
	"errors"
	"net"
	"testing"
)

func TestResolver_OutboundIP_Loopback(t *testing.T) {
	r := Resolver{Target: "127.0.0.1:9"}

	if got := r.OutboundIP(); got != "127.0.0.1" {
		t.Errorf("OutboundIP() = %q, want %q", got, "127.0.0.1")
	}
}

func TestResolver_OutboundIP_DialError(t *testing.T) {
	var gotNetwork, gotAddr string
	r := Resolver{
		Dial: func(network, address string) (net.Conn, error) {
			gotNetwork, gotAddr = network, address
			return nil, errors.New("network is unreachable")
		},
	}

	if got := r.OutboundIP(); got != Fallback {
		t.Errorf("OutboundIP() = %q, want %q", got, Fallback)
	}
	if gotNetwork != "udp4" {
		t.Errorf("dial network = %q, want udp4", gotNetwork)
	}
	if gotAddr != DefaultTarget {
		t.Errorf("dial address = %q, want %q", gotAddr, DefaultTarget)
	}
}

func TestResolver_OutboundIP_NotUDP(t *testing.T) {
	r := Resolver{
		Dial: func(network, address string) (net.Conn, error) {
			c1, c2 := net.Pipe()
			c2.Close()
			return c1, nil
		},
	}

	if got := r.OutboundIP(); got != Fallback {
		t.Errorf("OutboundIP() = %q, want %q", got, Fallback)
	}
}

func TestOutboundIP_NeverEmpty(t *testing.T) {
	if got := OutboundIP(); got == "" {
		t.Error("OutboundIP() returned an empty string")
	}
}

func TestIPv4Strings(t *testing.T) {
	_, lan, _ := net.ParseCIDR("192.168.1.59/24")
	lan.IP = net.ParseIP("192.168.1.59")

	addrs := []net.Addr{
		&net.IPNet{IP: net.ParseIP("10.0.0.2"), Mask: net.CIDRMask(8, 32)},
		lan,
		&net.IPAddr{IP: net.ParseIP("192.168.1.59")},
		&net.IPNet{IP: net.ParseIP("127.0.0.1"), Mask: net.CIDRMask(8, 32)},
		&net.IPNet{IP: net.ParseIP("169.254.3.4"), Mask: net.CIDRMask(16, 32)},
		&net.IPNet{IP: net.ParseIP("fe80::1"), Mask: net.CIDRMask(64, 128)},
		&net.UnixAddr{Name: "/tmp/sock", Net: "unix"},
	}

	got := ipv4Strings(addrs)
	want := []string{"10.0.0.2", "192.168.1.59"}

	if len(got) != len(want) {
		t.Fatalf("ipv4Strings() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ipv4Strings()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLANAddrs_NoLoopback(t *testing.T) {
	for _, addr := range LANAddrs() {
		ip := net.ParseIP(addr)
		if ip == nil {
			t.Errorf("LANAddrs() returned unparsable %q", addr)
			continue
		}
		if ip.IsLoopback() {
			t.Errorf("LANAddrs() returned loopback %q", addr)
		}
	}
}
