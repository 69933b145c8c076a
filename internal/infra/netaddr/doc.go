// Package netaddr resolves the addresses a phone on the same network can use
// to reach this machine.
//
// OutboundIP asks the kernel which local address routes towards a public
// host. Dialing UDP only selects a route, so no packet leaves the machine.
// LANAddrs lists every IPv4 address of the interfaces that are up, for hosts
// with several networks (Wi-Fi plus Ethernet or a VPN).
package netaddr
