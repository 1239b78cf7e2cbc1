// Copyright 2025 Edgeo SCADA
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package snmp

import (
	"context"
	"log/slog"
	"net"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// TrapListener listens for SNMP traps.
type TrapListener struct {
	ID      string
	opts    *TrapListenerOptions
	conn    *net.UDPConn
	handler TrapHandler
	logger  *slog.Logger
	done    chan struct{}
	wg      sync.WaitGroup
	metrics *Metrics
}

// NewTrapListener creates a new trap listener.
func NewTrapListener(handler TrapHandler, opts ...TrapListenerOption) *TrapListener {
	options := NewTrapListenerOptions()
	for _, opt := range opts {
		opt(options)
	}

	id := uuid.NewString()
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("listener_id", id)

	return &TrapListener{
		ID:      id,
		opts:    options,
		handler: handler,
		logger:  logger,
		done:    make(chan struct{}),
		metrics: NewMetrics(),
	}
}

// Start starts listening for traps.
func (l *TrapListener) Start(ctx context.Context) error {
	addr, err := net.ResolveUDPAddr("udp", l.opts.Address)
	if err != nil {
		return errors.Wrap(err, "snmp: resolve trap listen address")
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return errors.Wrap(err, "snmp: listen for traps")
	}

	l.conn = conn
	l.logger.Info("trap listener started", "address", l.opts.Address)

	l.wg.Add(1)
	go l.listen()

	return nil
}

// Stop stops the trap listener.
func (l *TrapListener) Stop() error {
	close(l.done)
	if l.conn != nil {
		l.conn.Close()
	}
	l.wg.Wait()
	l.logger.Info("trap listener stopped")
	return nil
}

func (l *TrapListener) listen() {
	defer l.wg.Done()

	buf := make([]byte, 65535)
	for {
		select {
		case <-l.done:
			return
		default:
		}

		n, remoteAddr, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-l.done:
				return
			default:
				l.logger.Warn("error reading trap", "error", err)
				continue
			}
		}

		l.metrics.TrapsReceived.Add(1)

		// Try to decode the trap
		trap, err := l.decodeTrap(buf[:n], remoteAddr)
		if err != nil {
			l.logger.Warn("failed to decode trap", "error", err, "source", remoteAddr)
			l.metrics.Errors.Add(1)
			continue
		}

		// Check community if specified
		if l.opts.Community != "" && trap.Community != l.opts.Community {
			l.logger.Warn("trap community mismatch",
				"expected", l.opts.Community,
				"received", trap.Community,
				"source", remoteAddr)
			continue
		}

		// Call handler
		if l.handler != nil {
			go l.handler(trap)
		}
	}
}

func (l *TrapListener) decodeTrap(data []byte, remoteAddr *net.UDPAddr) (*TrapPDU, error) {
	msg, err := ParseMessage(data)
	if err != nil {
		return nil, err
	}

	if msg.TrapV1 != nil {
		return &TrapPDU{
			Version:       msg.Version,
			Community:     msg.Community,
			Enterprise:    msg.TrapV1.Enterprise,
			AgentAddress:  net.IP(msg.TrapV1.AgentAddress[:]).String(),
			GenericTrap:   msg.TrapV1.GenericTrap,
			SpecificTrap:  msg.TrapV1.SpecificTrap,
			Timestamp:     msg.TrapV1.Timestamp,
			Variables:     msg.TrapV1.Variables(),
			SourceAddress: remoteAddr.String(),
		}, nil
	}

	trap := &TrapPDU{
		Version:       msg.Version,
		Community:     msg.Community,
		SourceAddress: remoteAddr.String(),
	}

	if msg.PDU.Type == PDUTrapV2 || msg.PDU.Type == PDUInformRequest {
		vars := msg.PDU.Variables()
		trap.Variables = vars

		// Extract sysUpTime from the leading varbinds.
		for _, v := range vars {
			if v.OID.Equal(OIDSysUpTime) {
				if val, ok := v.Value.(uint32); ok {
					trap.Timestamp = val
				}
			}
		}
	}

	return trap, nil
}

// Metrics returns the listener metrics.
func (l *TrapListener) Metrics() *Metrics {
	return l.metrics
}

// Address returns the listen address.
func (l *TrapListener) Address() string {
	if l.conn != nil {
		return l.conn.LocalAddr().String()
	}
	return l.opts.Address
}
