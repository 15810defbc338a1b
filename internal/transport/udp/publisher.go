// SPDX-License-Identifier: MIT
package udp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"vumeter/internal/log"
	"vumeter/internal/meta"
)

// Publisher periodically packs the current level snapshot into a binary
// packet and sends it through a Sender. Runs its own goroutine between
// Start and Stop.
//
// Packet layout (BigEndian):
//
//	uint32   sequence number
//	int64    timestamp, nanoseconds since epoch
//	float32  left channel level
//	float32  right channel level
//	uint16   band count N
//	float32  band values, N of them
type Publisher struct {
	sender   *Sender
	store    *meta.Store
	interval time.Duration
	logger   *log.Logger

	ticker   *time.Ticker
	doneChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	mu       sync.Mutex

	sequenceNum uint32
	f32Buffer   []float32
	packet      *bytes.Buffer
}

// NewPublisher builds a publisher sending every interval. Intervals
// below 1ms default to 16ms.
func NewPublisher(interval time.Duration, sender *Sender, store *meta.Store, logger *log.Logger) (*Publisher, error) {
	if sender == nil {
		return nil, fmt.Errorf("sender cannot be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if logger == nil {
		logger = log.Discard()
	}
	if interval < time.Millisecond {
		interval = 16 * time.Millisecond
	}
	return &Publisher{
		sender:   sender,
		store:    store,
		interval: interval,
		logger:   logger.Component("udp"),
		packet:   new(bytes.Buffer),
	}, nil
}

// Start launches the publish loop. Calling Start while running is a no-op.
func (p *Publisher) Start() {
	p.mu.Lock()
	if p.ticker != nil {
		p.mu.Unlock()
		return
	}
	p.ticker = time.NewTicker(p.interval)
	p.doneChan = make(chan struct{})
	p.stopOnce = sync.Once{}
	ticker := p.ticker
	doneChan := p.doneChan
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.logger.Infof("publishing every %s", p.interval)
		for {
			select {
			case <-ticker.C:
				p.buildAndSendPacket()
			case <-doneChan:
				return
			}
		}
	}()
}

// Stop signals the loop to exit and waits for it.
func (p *Publisher) Stop() error {
	p.mu.Lock()
	if p.ticker == nil {
		p.mu.Unlock()
		return nil
	}
	p.stopOnce.Do(func() {
		close(p.doneChan)
		p.ticker.Stop()
		p.ticker = nil
	})
	p.mu.Unlock()

	p.wg.Wait()
	return nil
}

func (p *Publisher) buildAndSendPacket() {
	lv := p.store.Levels()
	if cap(p.f32Buffer) < len(lv.Bands) {
		p.f32Buffer = make([]float32, len(lv.Bands))
	}
	p.f32Buffer = p.f32Buffer[:len(lv.Bands)]
	for i, v := range lv.Bands {
		p.f32Buffer[i] = float32(v)
	}

	p.sequenceNum++
	p.packet.Reset()
	err := binary.Write(p.packet, binary.BigEndian, p.sequenceNum)
	if err == nil {
		err = binary.Write(p.packet, binary.BigEndian, time.Now().UnixNano())
	}
	if err == nil {
		err = binary.Write(p.packet, binary.BigEndian, float32(lv.Left))
	}
	if err == nil {
		err = binary.Write(p.packet, binary.BigEndian, float32(lv.Right))
	}
	if err == nil {
		err = binary.Write(p.packet, binary.BigEndian, uint16(len(p.f32Buffer)))
	}
	if err == nil {
		err = binary.Write(p.packet, binary.BigEndian, p.f32Buffer)
	}
	if err != nil {
		p.logger.Errorf("error packing packet: %v", err)
		return
	}

	if err := p.sender.Send(p.packet.Bytes()); err != nil {
		p.logger.Debugf("send failed: %v", err)
	}
}

// Close stops the publisher.
func (p *Publisher) Close() error {
	return p.Stop()
}
