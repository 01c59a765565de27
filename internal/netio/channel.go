// Package netio implements C7, the multicast/unicast channel wrappers: the
// sender transmits on the multicast group and receives unicast feedback on
// the same socket; receivers join the multicast group and reply to the
// sender's address as learned from the source address of its first
// advertisement (§4.7). All reads use a bounded readiness poll (1 second,
// except where the sender's enrollment window passes a shorter one) rather
// than blocking indefinitely, matching the teacher's internal/ice/mdns.Client,
// which drives its multicast sockets the same way via golang.org/x/net/ipv4.
package netio

import (
	"net"
	"time"

	"golang.org/x/net/ipv4"
)

// PollTimeout bounds every blocking socket read, per §5 "Suspension points".
const PollTimeout = 1 * time.Second

// MulticastTTL is the minimum TTL the sender sets on outgoing datagrams, per
// §6 ("Sender sets multicast TTL >= 2").
const MulticastTTL = 2

// MaxDatagramSize is large enough for any packet this protocol emits; actual
// datagrams are bounded by the configured packet size well below this.
const MaxDatagramSize = 65507

// SenderConn is the sender's socket: an unconnected UDP socket that sends to
// the multicast group and receives unicast feedback from any receiver.
type SenderConn struct {
	conn  *net.UDPConn
	group *net.UDPAddr
}

// DialSender opens the sender's socket. It binds an ephemeral local port
// (not the multicast socket itself — the sender never joins the group, it
// only transmits to it) and sets the multicast TTL on outgoing packets.
func DialSender(group *net.UDPAddr) (*SenderConn, error) {
	conn, err := net.ListenUDP("udp4", nil)
	if err != nil {
		return nil, err
	}

	pc := ipv4.NewPacketConn(conn)
	if err := pc.SetMulticastTTL(MulticastTTL); err != nil {
		conn.Close()
		return nil, err
	}

	return &SenderConn{conn: conn, group: group}, nil
}

// Send transmits a packet to the multicast group.
func (c *SenderConn) Send(pkt []byte) error {
	_, err := c.conn.WriteToUDP(pkt, c.group)
	return err
}

// Recv polls for up to PollTimeout for a unicast reply. ok is false on a
// timeout with no error, signaling "idle" to the caller rather than a fault.
func (c *SenderConn) Recv() (pkt []byte, from *net.UDPAddr, ok bool, err error) {
	return c.RecvTimeout(PollTimeout)
}

// RecvTimeout is like Recv but with a caller-supplied poll duration, used by
// the sender's enrollment window (§4.5 ENROLL), which is shorter than the
// steady-state poll.
func (c *SenderConn) RecvTimeout(d time.Duration) (pkt []byte, from *net.UDPAddr, ok bool, err error) {
	buf := make([]byte, MaxDatagramSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(d)); err != nil {
		return nil, nil, false, err
	}
	n, addr, err := c.conn.ReadFromUDP(buf)
	if err != nil {
		if isTimeout(err) {
			return nil, nil, false, nil
		}
		return nil, nil, false, err
	}
	return buf[:n], addr, true, nil
}

func (c *SenderConn) Close() error {
	return c.conn.Close()
}

// ReceiverConn is a receiver's socket: bound to the multicast group/port,
// joined to the group, used both to receive the sender's multicast traffic
// and to send unicast feedback back to the sender.
type ReceiverConn struct {
	conn       *net.UDPConn
	senderAddr *net.UDPAddr // learned from the first advertisement's source address
}

// JoinReceiver binds to the group's port, enables address reuse, and joins
// the multicast group on the default interface (§4.7, §6).
func JoinReceiver(group *net.UDPAddr) (*ReceiverConn, error) {
	conn, err := net.ListenMulticastUDP("udp4", nil, group)
	if err != nil {
		return nil, err
	}
	return &ReceiverConn{conn: conn}, nil
}

// Recv polls for up to PollTimeout for a multicast datagram from the
// sender.
func (c *ReceiverConn) Recv() (pkt []byte, from *net.UDPAddr, ok bool, err error) {
	buf := make([]byte, MaxDatagramSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(PollTimeout)); err != nil {
		return nil, nil, false, err
	}
	n, addr, err := c.conn.ReadFromUDP(buf)
	if err != nil {
		if isTimeout(err) {
			return nil, nil, false, nil
		}
		return nil, nil, false, err
	}
	return buf[:n], addr, true, nil
}

// LearnSenderAddress records the sender's return address, as observed from
// the source address of its first advertisement (§4.7).
func (c *ReceiverConn) LearnSenderAddress(addr *net.UDPAddr) {
	if c.senderAddr == nil {
		c.senderAddr = addr
	}
}

// Send transmits a unicast packet to the learned sender address.
func (c *ReceiverConn) Send(pkt []byte) error {
	_, err := c.conn.WriteToUDP(pkt, c.senderAddr)
	return err
}

func (c *ReceiverConn) Close() error {
	return c.conn.Close()
}

func isTimeout(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}
