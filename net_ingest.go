// net_ingest.go - UDP listener for peripheral state datagrams

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/intuitionamiga/chip8screen/wire"
)

// One encoded state message is a little over 256 bytes.
const INGEST_BUFFER_SIZE = 1024

// After INGEST_ERROR_BURST consecutive receive errors the loop stops warning
// and waits INGEST_ERROR_BACKOFF between reads until one succeeds.
const (
	INGEST_ERROR_BURST   = 8
	INGEST_ERROR_BACKOFF = 100 * time.Millisecond
)

// TransportError provides detailed error context for socket operations
type TransportError struct {
	Operation string
	Details   string
	Err       error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("transport %s failed: %s", e.Operation, e.Details)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StateApplier receives each decoded datagram.
type StateApplier interface {
	Apply(state PeripheralState)
}

// MessageDecoder turns one datagram payload into a state.
type MessageDecoder func(data []byte) (PeripheralState, error)

// DecodePeripheralMessage is the MessageDecoder for the emulator's wire format.
func DecodePeripheralMessage(data []byte) (PeripheralState, error) {
	msg, err := wire.Decode(data)
	if err != nil {
		return PeripheralState{}, err
	}
	return PeripheralState{
		Screen: msg.Screen,
		Keys:   uint16(msg.Keys),
		Sound:  msg.Sound,
	}, nil
}

// datagramReader is the receive side of *net.UDPConn.
type datagramReader interface {
	ReadFromUDP(b []byte) (int, *net.UDPAddr, error)
}

type IngestStats struct {
	Received      uint64
	Dropped       uint64
	ReceiveErrors uint64
}

// NetworkIngest owns one UDP socket, either bound to a port or joined to a
// multicast group, and feeds every decodable datagram to a StateApplier.
type NetworkIngest struct {
	port   int
	group  string
	decode MessageDecoder
	sink   StateApplier

	conn         *net.UDPConn
	reader       datagramReader
	errorBackoff time.Duration
	running      atomic.Bool
	started      bool
	stopCh       chan struct{}
	done         chan struct{}
	stopOnce     sync.Once

	received      atomic.Uint64
	dropped       atomic.Uint64
	receiveErrors atomic.Uint64
}

// NewNetworkIngest prepares a listener; group is empty for unicast.
func NewNetworkIngest(port int, group string, decode MessageDecoder, sink StateApplier) *NetworkIngest {
	return &NetworkIngest{
		port:   port,
		group:  group,
		decode: decode,
		sink:   sink,

		errorBackoff: INGEST_ERROR_BACKOFF,
		stopCh:       make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// Listen binds the socket. Failure here is fatal for the caller.
func (n *NetworkIngest) Listen() error {
	if n.conn != nil {
		return nil
	}
	var (
		conn *net.UDPConn
		err  error
	)
	if n.group == "" {
		conn, err = net.ListenUDP("udp", &net.UDPAddr{Port: n.port})
	} else {
		ip := net.ParseIP(n.group)
		if ip == nil || !ip.IsMulticast() {
			return &TransportError{Operation: "bind", Details: fmt.Sprintf("%q is not a multicast group", n.group)}
		}
		conn, err = net.ListenMulticastUDP("udp4", nil, &net.UDPAddr{IP: ip, Port: n.port})
	}
	if err != nil {
		return &TransportError{Operation: "bind", Details: n.describe(), Err: err}
	}
	n.conn = conn
	n.reader = conn
	return nil
}

func (n *NetworkIngest) describe() string {
	if n.group == "" {
		return fmt.Sprintf("udp port %d", n.port)
	}
	return fmt.Sprintf("multicast %s:%d", n.group, n.port)
}

// Start begins receiving in a goroutine. Listen must have succeeded.
func (n *NetworkIngest) Start() error {
	if n.reader == nil {
		return &TransportError{Operation: "start", Details: "socket not bound"}
	}
	if n.started {
		return nil
	}
	n.started = true
	n.running.Store(true)
	go n.receiveLoop()
	return nil
}

func (n *NetworkIngest) receiveLoop() {
	defer close(n.done)
	buf := make([]byte, INGEST_BUFFER_SIZE)
	failures := 0
	for {
		size, from, err := n.reader.ReadFromUDP(buf)
		if err != nil {
			if !n.running.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			n.receiveErrors.Add(1)
			failures++
			if !n.receiveFailed(failures, err) {
				return
			}
			continue
		}
		failures = 0
		n.received.Add(1)

		state, err := n.decode(buf[:size])
		if err != nil {
			n.dropped.Add(1)
			warnf("net_ingest: dropping %d byte datagram from %v: %v\n", size, from, err)
			continue
		}
		n.sink.Apply(state)
	}
}

// receiveFailed reports a receive error and, once errors keep repeating,
// waits out the backoff. It returns false if Stop was called meanwhile.
func (n *NetworkIngest) receiveFailed(failures int, err error) bool {
	switch {
	case failures < INGEST_ERROR_BURST:
		warnf("net_ingest: receive error: %v\n", err)
		return true
	case failures == INGEST_ERROR_BURST:
		warnf("net_ingest: receive error: %v (repeating, backing off)\n", err)
	}
	select {
	case <-n.stopCh:
		return false
	case <-time.After(n.errorBackoff):
		return true
	}
}

// Stop closes the socket, which unblocks a pending receive, and waits for
// the loop to exit.
func (n *NetworkIngest) Stop() {
	n.stopOnce.Do(func() {
		n.running.Store(false)
		close(n.stopCh)
		if n.conn != nil {
			n.conn.Close()
		}
		if n.started {
			<-n.done
		}
	})
}

// LocalAddr reports the bound address, or nil before Listen.
func (n *NetworkIngest) LocalAddr() *net.UDPAddr {
	if n.conn == nil {
		return nil
	}
	return n.conn.LocalAddr().(*net.UDPAddr)
}

func (n *NetworkIngest) Stats() IngestStats {
	return IngestStats{
		Received:      n.received.Load(),
		Dropped:       n.dropped.Load(),
		ReceiveErrors: n.receiveErrors.Load(),
	}
}
