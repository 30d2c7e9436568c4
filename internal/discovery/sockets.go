package discovery

import (
	"fmt"
	"net"

	"golang.org/x/net/ipv4"
)

// announce payloads must fit a single datagram of this size
const maxDatagramSize = 1024

// startSockets binds the receive socket on the multicast port and the
// send socket one port above, joins both to the group and resolves the
// outbound target. Any failure here is an unrecoverable startup error.
// Callers must hold d.mu.
func (d *Discovery) startSockets() error {
	const op = "discovery.startSockets"

	group := net.ParseIP(d.cfg.MulticastGroup)
	if group == nil || !group.IsMulticast() {
		return fmt.Errorf("%s: %w: %q", op, ErrBadAddress, d.cfg.MulticastGroup)
	}

	iface, ifaceIP, err := multicastInterface(d.cfg.InterfaceAddr)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	groupAddr := &net.UDPAddr{IP: group, Port: d.cfg.MulticastPort}

	recvConn, err := net.ListenMulticastUDP("udp4", iface, groupAddr)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := recvConn.SetReadBuffer(1024 * 1024); err != nil {
		recvConn.Close()
		return fmt.Errorf("%s: %w", op, err)
	}

	sendConn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: ifaceIP, Port: d.cfg.MulticastPort + 1})
	if err != nil {
		recvConn.Close()
		return fmt.Errorf("%s: %w", op, err)
	}

	// join on the send side too so segment peers see us as a group member
	if err := ipv4.NewPacketConn(sendConn).JoinGroup(iface, &net.UDPAddr{IP: group}); err != nil {
		recvConn.Close()
		sendConn.Close()
		return fmt.Errorf("%s: %w", op, err)
	}

	d.recvConn = recvConn
	d.sendConn = sendConn
	d.target = groupAddr

	return nil
}

// closeSockets releases everything the listen loop left behind.
func (d *Discovery) closeSockets() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.recvConn != nil {
		d.recvConn.Close()
		d.recvConn = nil
	}
	if d.sendConn != nil {
		d.sendConn.Close()
		d.sendConn = nil
	}
	d.target = nil
}

// multicastInterface maps a configured interface address to the network
// interface carrying it. The unspecified address selects the system
// default (nil interface).
func multicastInterface(addr string) (*net.Interface, net.IP, error) {
	if addr == "" || addr == "0.0.0.0" {
		return nil, nil, nil
	}

	ip := net.ParseIP(addr)
	if ip == nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrBadAddress, addr)
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, nil, err
	}

	for i := range ifaces {
		addrs, err := ifaces[i].Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ipNet, ok := a.(*net.IPNet)
			if ok && ipNet.IP.Equal(ip) {
				return &ifaces[i], ip, nil
			}
		}
	}

	return nil, nil, fmt.Errorf("%w: no interface with address %q", ErrBadAddress, addr)
}
