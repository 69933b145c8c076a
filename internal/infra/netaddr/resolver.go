package netaddr

import (
	"net"
	"sort"

	"github.com/samber/lo"
)

const (
	// DefaultTarget is the public address used to select the outbound route.
	DefaultTarget = "8.8.8.8:80"

	// Fallback is returned when no outbound address can be determined.
	Fallback = "localhost"
)

// DialFunc opens a connection; net.Dial satisfies it.
type DialFunc func(network, address string) (net.Conn, error)

// Resolver determines the outbound IPv4 address. The zero value uses
// DefaultTarget and net.Dial.
type Resolver struct {
	Target string
	Dial   DialFunc
}

// OutboundIP returns the local IPv4 address of the route towards r.Target,
// or Fallback if the route cannot be determined. It never returns an empty
// string.
func (r Resolver) OutboundIP() string {
	target := r.Target
	if target == "" {
		target = DefaultTarget
	}
	dial := r.Dial
	if dial == nil {
		dial = net.Dial
	}

	conn, err := dial("udp4", target)
	if err != nil {
		return Fallback
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || addr.IP == nil || addr.IP.IsUnspecified() {
		return Fallback
	}
	return addr.IP.String()
}

// OutboundIP returns the outbound IPv4 address using the default resolver.
func OutboundIP() string {
	return Resolver{}.OutboundIP()
}

// LANAddrs returns the non-loopback IPv4 addresses of every interface that
// is up, sorted and without duplicates. Errors yield an empty slice.
func LANAddrs() []string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil
	}

	var addrs []net.Addr
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		ifAddrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		addrs = append(addrs, ifAddrs...)
	}

	return ipv4Strings(addrs)
}

// ipv4Strings keeps the global or private IPv4 unicast addresses of addrs.
func ipv4Strings(addrs []net.Addr) []string {
	ips := lo.FilterMap(addrs, func(a net.Addr, _ int) (string, bool) {
		var ip net.IP
		switch v := a.(type) {
		case *net.IPNet:
			ip = v.IP
		case *net.IPAddr:
			ip = v.IP
		default:
			return "", false
		}

		ip = ip.To4()
		if ip == nil || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
			return "", false
		}
		return ip.String(), true
	})

	ips = lo.Uniq(ips)
	sort.Strings(ips)
	return ips
}
