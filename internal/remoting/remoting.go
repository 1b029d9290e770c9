// Package remoting implements the minimal TCP-based transport backing
// RemoteActorRef: gob-encoded packets streamed over TCP (gob's own message
// framing, with no separate length prefix), and a connection pool keyed by
// peer address with reconnect-on-failure. It is grounded on the
// original_source's remoting module (packet.rs, connection.rs,
// remote_actor_ref.rs) but is deliberately not hardened for production — no
// encryption, no flow control, no multiplexed streams — since remoting is
// named as an out-of-scope collaborator by the spec (§1).
package remoting

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"net"
	"sync"
)

// Packet is the unit of wire traffic between two actor systems, mirroring
// the source's Packet type: a target identity, an optional sender identity,
// and an opaque payload.
type Packet struct {
	TargetID string
	SenderID string
	Payload  interface{}
}

// Connection is one gob-framed TCP connection to a peer.
type Connection struct {
	mu  sync.Mutex
	nc  net.Conn
	enc *gob.Encoder
	dec *gob.Decoder
}

// Dial opens a new Connection to addr.
func Dial(addr string) (*Connection, error) {
	nc, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("remoting: dial %s: %w", addr, err)
	}
	return wrap(nc), nil
}

func wrap(nc net.Conn) *Connection {
	return &Connection{
		nc:  nc,
		enc: gob.NewEncoder(nc),
		dec: gob.NewDecoder(bufio.NewReader(nc)),
	}
}

// Send writes one Packet to the peer.
func (c *Connection) Send(p Packet) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enc.Encode(p)
}

// Recv blocks for the next Packet from the peer.
func (c *Connection) Recv() (Packet, error) {
	var p Packet
	err := c.dec.Decode(&p)
	return p, err
}

// Close tears down the underlying socket.
func (c *Connection) Close() error { return c.nc.Close() }

// Pool is a small connection pool keyed by peer address, with
// reconnect-on-failure: a failed Send evicts the cached connection so the
// next Send dials fresh.
type Pool struct {
	mu    sync.Mutex
	conns map[string]*Connection
}

// NewPool returns an empty connection pool.
func NewPool() *Pool {
	return &Pool{conns: make(map[string]*Connection)}
}

// Send dispatches p to addr, dialing (or redialing) as needed.
func (p *Pool) Send(addr string, pkt Packet) error {
	conn, err := p.get(addr)
	if err != nil {
		return err
	}
	if err := conn.Send(pkt); err != nil {
		p.evict(addr)
		return err
	}
	return nil
}

func (p *Pool) get(addr string) (*Connection, error) {
	p.mu.Lock()
	if c, ok := p.conns[addr]; ok {
		p.mu.Unlock()
		return c, nil
	}
	p.mu.Unlock()

	c, err := Dial(addr)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.conns[addr] = c
	p.mu.Unlock()
	return c, nil
}

func (p *Pool) evict(addr string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.conns[addr]; ok {
		_ = c.Close()
		delete(p.conns, addr)
	}
}

// Close tears down every pooled connection.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for addr, c := range p.conns {
		_ = c.Close()
		delete(p.conns, addr)
	}
}

// Acceptor listens for inbound peer connections and hands each accepted
// Connection to handle in its own goroutine.
type Acceptor struct {
	ln net.Listener
}

// Listen starts accepting connections on addr.
func Listen(addr string, handle func(*Connection)) (*Acceptor, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("remoting: listen %s: %w", addr, err)
	}
	a := &Acceptor{ln: ln}
	go func() {
		for {
			nc, err := ln.Accept()
			if err != nil {
				return
			}
			go handle(wrap(nc))
		}
	}()
	return a, nil
}

// Close stops accepting new connections.
func (a *Acceptor) Close() error { return a.ln.Close() }
