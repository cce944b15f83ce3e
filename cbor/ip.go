package cbor

import (
	"net"

	"github.com/ionbridge/cborcore/wire"
)

// encodeIPAddress implements tag 260: a packed 4- or
// 16-byte address, preferring the 4-byte form when the address has one.
func (e *Encoder) encodeIPAddress(ip net.IP) error {
	e.buf = wire.AppendTagHead(e.buf, tagIPAddress)
	if v4 := ip.To4(); v4 != nil {
		e.buf = wire.AppendBytes(e.buf, v4)
		return nil
	}
	e.buf = wire.AppendBytes(e.buf, ip.To16())
	return nil
}

// encodeIPNetwork implements tag 261: a one-entry map
// from the packed network address to its prefix length.
func (e *Encoder) encodeIPNetwork(n *net.IPNet) error {
	e.buf = wire.AppendTagHead(e.buf, tagIPNetwork)
	e.buf = wire.AppendMapHead(e.buf, 1)
	ip := n.IP
	if v4 := ip.To4(); v4 != nil {
		e.buf = wire.AppendBytes(e.buf, v4)
	} else {
		e.buf = wire.AppendBytes(e.buf, ip.To16())
	}
	ones, _ := n.Mask.Size()
	e.buf = wire.AppendUint(e.buf, uint64(ones))
	return nil
}
