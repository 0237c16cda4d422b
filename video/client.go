package video

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const (
	// frameMagic prefixes every frame packet on the wire.
	frameMagic = 0x4E414F46 // "NAOF"

	defaultDialTimeout  = 5 * time.Second
	defaultFetchTimeout = 2 * time.Second

	// maxFramePayload bounds a single frame buffer (4VGA RGB is ~3.7MB).
	maxFramePayload = 8 << 20
)

// controlRequest is the JSON control message sent to the gateway.
type controlRequest struct {
	Op         string `json:"op"`
	Name       string `json:"name,omitempty"`
	ID         string `json:"id,omitempty"`
	Camera     int    `json:"camera,omitempty"`
	Resolution int    `json:"resolution"`
	Colorspace int    `json:"colorspace,omitempty"`
	FPS        int    `json:"fps,omitempty"`
}

// controlResponse is the gateway's reply to a control message.
type controlResponse struct {
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

// frameHeader is the fixed binary header preceding each frame payload.
// All fields are big-endian. Flags bit 0 set means a frame follows; a zero
// flags field is the gateway's "no frame ready" answer and carries no payload.
type frameHeader struct {
	Magic         uint32
	Flags         uint32
	Seq           uint64
	Width         uint16
	Height        uint16
	Channels      uint16
	Reserved      uint16
	TimestampUsec int64
	PayloadLen    uint32
}

const frameHasData = 1 << 0

// StreamClient speaks the frame gateway protocol over a single TCP
// connection. It implements Service and holds at most one subscription.
type StreamClient struct {
	addr         string
	conn         net.Conn
	reader       *bufio.Reader
	fetchTimeout time.Duration

	mu     sync.Mutex
	subID  string
	broken bool
}

// StreamClientOption configures a StreamClient.
type StreamClientOption func(*StreamClient)

// WithFetchTimeout overrides the per-frame read deadline.
func WithFetchTimeout(d time.Duration) StreamClientOption {
	return func(c *StreamClient) { c.fetchTimeout = d }
}

// NewStreamClient dials the frame gateway at addr (host:port). A dial
// failure is returned as a *ConnectionError and is fatal to the caller.
func NewStreamClient(addr string, opts ...StreamClientOption) (*StreamClient, error) {
	conn, err := net.DialTimeout("tcp", addr, defaultDialTimeout)
	if err != nil {
		return nil, &ConnectionError{Addr: addr, Err: err}
	}

	client := &StreamClient{
		addr:         addr,
		conn:         conn,
		reader:       bufio.NewReaderSize(conn, 64*1024),
		fetchTimeout: defaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Subscribe registers a named camera subscription, replacing any prior one.
func (c *StreamClient) Subscribe(name string, params SubscribeParams) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.broken {
		return "", &ConnectionError{Addr: c.addr, Err: errors.New("stream is broken")}
	}

	if c.subID != "" {
		// Best effort; the response must still be consumed to keep the
		// control stream in sync.
		var stale controlResponse
		_ = c.sendControlLocked(controlRequest{Op: "unsubscribe", ID: c.subID}, &stale)
		c.subID = ""
	}

	var resp controlResponse
	req := controlRequest{
		Op:         "subscribe",
		Name:       name,
		Camera:     params.Camera,
		Resolution: params.Resolution,
		Colorspace: params.Colorspace,
		FPS:        params.FPS,
	}
	if err := c.sendControlLocked(req, &resp); err != nil {
		return "", errors.Wrap(err, "subscribe")
	}
	if resp.Error != "" {
		return "", errors.Errorf("subscribe rejected: %s", resp.Error)
	}
	if resp.ID == "" {
		return "", errors.New("subscribe: gateway returned empty subscription id")
	}

	c.subID = resp.ID
	return resp.ID, nil
}

// GetFrame requests the next frame for the given subscription. It returns
// (nil, nil) when the gateway had no frame ready. IO errors are returned to
// the caller, which counts them as drops; the stream is marked broken so
// later calls fail fast instead of reading desynchronized bytes.
func (c *StreamClient) GetFrame(ctx context.Context, id string) (*Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.broken {
		return nil, errors.New("stream is broken")
	}
	if id == "" || id != c.subID {
		return nil, errors.Errorf("unknown subscription id %q", id)
	}

	deadline := time.Now().Add(c.fetchTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		c.broken = true
		return nil, errors.Wrap(err, "set deadline")
	}

	line, err := json.Marshal(controlRequest{Op: "frame", ID: id})
	if err != nil {
		return nil, errors.Wrap(err, "encode frame request")
	}
	if _, err := c.conn.Write(append(line, '\n')); err != nil {
		c.broken = true
		return nil, errors.Wrap(err, "request frame")
	}

	var hdr frameHeader
	if err := binary.Read(c.reader, binary.BigEndian, &hdr); err != nil {
		c.broken = true
		return nil, errors.Wrap(err, "read frame header")
	}
	if hdr.Magic != frameMagic {
		c.broken = true
		return nil, errors.Errorf("bad frame magic 0x%08X", hdr.Magic)
	}

	if hdr.Flags&frameHasData == 0 {
		return nil, nil
	}

	expect := uint32(hdr.Width) * uint32(hdr.Height) * uint32(hdr.Channels)
	if hdr.PayloadLen == 0 || hdr.PayloadLen > maxFramePayload || hdr.PayloadLen != expect {
		c.broken = true
		return nil, errors.Errorf("frame payload length %d does not match %dx%dx%d",
			hdr.PayloadLen, hdr.Width, hdr.Height, hdr.Channels)
	}

	data := make([]byte, hdr.PayloadLen)
	if _, err := io.ReadFull(c.reader, data); err != nil {
		c.broken = true
		return nil, errors.Wrap(err, "read frame payload")
	}

	return &Frame{
		Seq:       hdr.Seq,
		Width:     int(hdr.Width),
		Height:    int(hdr.Height),
		Channels:  int(hdr.Channels),
		Timestamp: time.UnixMicro(hdr.TimestampUsec),
		Data:      data,
	}, nil
}

// Unsubscribe tears down the active subscription.
func (c *StreamClient) Unsubscribe(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id == "" || id != c.subID {
		return errors.Errorf("unknown subscription id %q", id)
	}
	c.subID = ""
	if c.broken {
		return nil
	}

	var resp controlResponse
	if err := c.sendControlLocked(controlRequest{Op: "unsubscribe", ID: id}, &resp); err != nil {
		return errors.Wrap(err, "unsubscribe")
	}
	if resp.Error != "" {
		return errors.Errorf("unsubscribe rejected: %s", resp.Error)
	}
	return nil
}

// Close closes the gateway connection.
func (c *StreamClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.broken = true
	return c.conn.Close()
}

// sendControlLocked writes one JSON control line and, when resp is non-nil,
// reads one JSON response line. The caller must hold c.mu.
func (c *StreamClient) sendControlLocked(req controlRequest, resp *controlResponse) error {
	if err := c.conn.SetDeadline(time.Now().Add(c.fetchTimeout)); err != nil {
		return fmt.Errorf("set deadline: %w", err)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode control message: %w", err)
	}
	if _, err := c.conn.Write(append(payload, '\n')); err != nil {
		c.broken = true
		return fmt.Errorf("write control message: %w", err)
	}

	if resp == nil {
		return nil
	}
	line, err := c.reader.ReadBytes('\n')
	if err != nil {
		c.broken = true
		return fmt.Errorf("read control response: %w", err)
	}
	if err := json.Unmarshal(line, resp); err != nil {
		c.broken = true
		return fmt.Errorf("decode control response: %w", err)
	}
	return nil
}
