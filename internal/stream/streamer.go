package stream

import (
	"bytes"
	"image"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"gs-streamer/internal/log"
)

var logger = log.New("stream")

// Options configure a Streamer.
type Options struct {
	// Address of the video client, host:port.
	Addr string

	// Canvas size. Frames are encoded at this resolution.
	Width  int
	Height int

	// Frames that may wait for encoding before new ones are dropped.
	QueueDepth int

	// How often statistics are logged. Zero disables the reporter.
	ReportInterval time.Duration

	DialTimeout time.Duration
	// Minimum delay between two connection attempts.
	RetryInterval time.Duration
}

func (o *Options) setDefaults() {
	if o.QueueDepth <= 0 {
		o.QueueDepth = 4
	}
	if o.DialTimeout <= 0 {
		o.DialTimeout = time.Second
	}
	if o.RetryInterval <= 0 {
		o.RetryInterval = time.Second
	}
}

type frame struct {
	id       int64
	img      *image.NRGBA
	payload  bytes.Buffer
	encodeAt time.Time
}

// Streamer encodes composited frames to WebP and sends them over TCP.
// Canvas and Send must be called from a single goroutine; encoding and
// sending run on one goroutine each so frames leave in submission order.
type Streamer struct {
	opts   Options
	canvas *image.NRGBA
	frames sync.Pool

	mu     sync.RWMutex
	closed bool

	encodeCh chan *frame
	sendCh   chan *frame
	wg       sync.WaitGroup
	done     chan struct{}

	// Owned by the send goroutine.
	conn      net.Conn
	nextRetry time.Time

	sent, dropped, failed atomic.Uint64
	connected             atomic.Bool
	lastSent              atomic.Int64
	timings               timings
}

// NewStreamer starts the encode and send goroutines. The connection is
// opened lazily when the first frame is ready and re-opened after errors.
func NewStreamer(opts Options) *Streamer {
	opts.setDefaults()
	s := &Streamer{
		opts:     opts,
		canvas:   image.NewNRGBA(image.Rect(0, 0, opts.Width, opts.Height)),
		encodeCh: make(chan *frame, opts.QueueDepth),
		sendCh:   make(chan *frame, opts.QueueDepth),
		done:     make(chan struct{}),
	}
	s.frames.New = func() any {
		return &frame{img: image.NewNRGBA(s.canvas.Rect)}
	}
	s.lastSent.Store(-1)

	s.wg.Add(2)
	go s.encodeLoop()
	go s.sendLoop()

	if opts.ReportInterval > 0 {
		go s.report(opts.ReportInterval)
	}
	return s
}

// Canvas is the staging image the compositor writes into.
func (s *Streamer) Canvas() *image.NRGBA {
	return s.canvas
}

// Send snapshots the canvas and queues it for encoding, tagged with
// frameID. It never blocks: when the queue is full the frame is dropped.
func (s *Streamer) Send(frameID int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}

	start := time.Now()
	f := s.frames.Get().(*frame)
	f.id = frameID
	copy(f.img.Pix, s.canvas.Pix)
	s.timings.transfer.observe(time.Since(start))

	select {
	case s.encodeCh <- f:
	default:
		s.dropped.Add(1)
		s.frames.Put(f)
	}
}

func (s *Streamer) encodeLoop() {
	defer s.wg.Done()
	defer close(s.sendCh)

	for f := range s.encodeCh {
		start := time.Now()
		f.payload.Reset()
		// Reserve room for the header, filled in once the size is known.
		f.payload.Write(make([]byte, HeaderSize))
		if err := Encode(&f.payload, f.img, FormatWebP); err != nil {
			logger.Errorf("frame %d: %v", f.id, err)
			s.failed.Add(1)
			s.frames.Put(f)
			continue
		}
		PutHeader(f.payload.Bytes(), f.id, f.payload.Len()-HeaderSize)
		s.timings.encode.observe(time.Since(start))
		s.sendCh <- f
	}
}

func (s *Streamer) sendLoop() {
	defer s.wg.Done()

	for f := range s.sendCh {
		s.deliver(f)
		s.frames.Put(f)
	}
	s.disconnect()
}

func (s *Streamer) deliver(f *frame) {
	if !s.connect() {
		s.failed.Add(1)
		return
	}

	start := time.Now()
	if _, err := s.conn.Write(f.payload.Bytes()); err != nil {
		logger.Warningf("sending frame %d to %s failed: %v", f.id, s.opts.Addr, err)
		s.failed.Add(1)
		s.disconnect()
		return
	}
	s.timings.send.observe(time.Since(start))
	s.sent.Add(1)
	s.lastSent.Store(f.id)
}

func (s *Streamer) connect() bool {
	if s.conn != nil {
		return true
	}
	now := time.Now()
	if now.Before(s.nextRetry) {
		return false
	}

	conn, err := net.DialTimeout("tcp", s.opts.Addr, s.opts.DialTimeout)
	if err != nil {
		s.nextRetry = now.Add(s.opts.RetryInterval)
		logger.Warningf("connecting to %s failed: %v", s.opts.Addr, err)
		return false
	}
	logger.Noticef("streaming to %s", s.opts.Addr)
	s.conn = conn
	s.connected.Store(true)
	return true
}

func (s *Streamer) disconnect() {
	if s.conn == nil {
		return
	}
	s.conn.Close()
	s.conn = nil
	s.connected.Store(false)
	s.nextRetry = time.Now().Add(s.opts.RetryInterval)
}

// Close flushes queued frames and stops the streamer. Frames sent after
// Close are ignored.
func (s *Streamer) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSinkClosed
	}
	s.closed = true
	close(s.encodeCh)
	s.mu.Unlock()

	s.wg.Wait()
	close(s.done)
	return nil
}

// report logs statistics periodically, like a progress ticker.
func (s *Streamer) report(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := s.sent.Load()
	lastAt := time.Now()
	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			sent := s.sent.Load()
			rate := float64(sent-last) / now.Sub(lastAt).Seconds()
			s.timings.setRate(rate)
			last, lastAt = sent, now

			if sent > 0 {
				st := s.Stats()
				logger.Infof("%.1f fps, transfer %s, encode %s, send %s, dropped %d, failed %d",
					rate, st.Transfer, st.Encode, st.Send, st.Dropped, st.Failed)
			}
		}
	}
}
