package pose

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"gs-streamer/internal/log"
)

var logger = log.New("pose")

// Largest datagram accepted; anything larger is truncated and rejected.
const maxDatagram = 64 * 1024

// ReceiverStats counts datagrams handled by a Receiver.
type ReceiverStats struct {
	Received uint64
	Rejected uint64
	// Poses replaced by a newer one before they were polled.
	Overwritten uint64
}

// Receiver listens for pose datagrams and keeps only the latest one. It
// implements Source; Poll may be called from another goroutine than Run.
type Receiver struct {
	conn net.PacketConn

	mu      sync.Mutex
	pending Pose
	stats   ReceiverStats

	arrivals  chan struct{}
	closeOnce sync.Once
}

// Listen opens a UDP receiver on addr.
func Listen(addr string) (*Receiver, error) {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("pose: listen on %s: %w", addr, err)
	}
	return NewReceiver(conn), nil
}

// NewReceiver reads poses from an already open packet connection.
func NewReceiver(conn net.PacketConn) *Receiver {
	return &Receiver{
		conn:     conn,
		pending:  Pose{ID: NoPose},
		arrivals: make(chan struct{}, 1),
	}
}

func (r *Receiver) Addr() net.Addr {
	return r.conn.LocalAddr()
}

// Arrivals is signalled after a pose was stored. Signals coalesce.
func (r *Receiver) Arrivals() <-chan struct{} {
	return r.arrivals
}

// Run reads datagrams until ctx is cancelled or the receiver is closed.
func (r *Receiver) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { r.Close() })
	defer stop()

	logger.Noticef("listening for poses on %s", r.conn.LocalAddr())
	buf := make([]byte, maxDatagram)
	for {
		n, from, err := r.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("pose: read: %w", err)
		}

		p, err := Decode(buf[:n])
		if err != nil {
			r.mu.Lock()
			r.stats.Rejected++
			r.mu.Unlock()
			logger.Warningf("dropping datagram from %s: %v", from, err)
			continue
		}
		r.store(p)
	}
}

func (r *Receiver) store(p Pose) {
	r.mu.Lock()
	if r.pending.Valid() {
		r.stats.Overwritten++
	}
	r.pending = p
	r.stats.Received++
	r.mu.Unlock()

	select {
	case r.arrivals <- struct{}{}:
	default:
	}
}

// Poll returns the latest unpolled pose, or a NoPose value.
func (r *Receiver) Poll() Pose {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.pending
	r.pending = Pose{ID: NoPose}
	return p
}

func (r *Receiver) Stats() ReceiverStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Close stops Run. It is safe to call more than once.
func (r *Receiver) Close() error {
	err := ErrClosed
	r.closeOnce.Do(func() {
		err = r.conn.Close()
	})
	return err
}
