// SPDX-License-Identifier: MIT

// Package udp streams compact binary band packets to a fixed target,
// for wall displays and diagnostics that don't want a WebSocket stack.
package udp

import (
	"fmt"
	"net"
	"sync"

	"vumeter/internal/log"
)

// Sender writes packets to one UDP target.
type Sender struct {
	conn   *net.UDPConn
	logger *log.Logger
	mu     sync.Mutex
	closed bool
}

// NewSender dials the target ("host:port").
func NewSender(targetAddress string, logger *log.Logger) (*Sender, error) {
	if logger == nil {
		logger = log.Discard()
	}
	udpAddr, err := net.ResolveUDPAddr("udp", targetAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve UDP target %q: %w", targetAddress, err)
	}
	conn, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial UDP target %q: %w", targetAddress, err)
	}

	logger = logger.Component("udp")
	logger.Infof("sending to %s", conn.RemoteAddr())
	return &Sender{conn: conn, logger: logger}, nil
}

// Send transmits one packet. Safe for concurrent use.
func (s *Sender) Send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("UDP sender is closed")
	}
	if _, err := s.conn.Write(data); err != nil {
		return fmt.Errorf("failed to send UDP packet: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (s *Sender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	if err != nil {
		return fmt.Errorf("failed to close UDP connection: %w", err)
	}
	return nil
}
