package video

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway is an in-process stand-in for the robot's frame gateway. It
// serves one connection, answers control messages, and emits scripted
// frames so the wire format can be exercised end to end.
type fakeGateway struct {
	listener net.Listener
	frames   []*Frame
	next     int
}

func newFakeGateway(t *testing.T, frames []*Frame) *fakeGateway {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	gw := &fakeGateway{listener: listener, frames: frames}
	go gw.serve(t)
	t.Cleanup(func() { listener.Close() })
	return gw
}

func (g *fakeGateway) addr() string { return g.listener.Addr().String() }

func (g *fakeGateway) serve(t *testing.T) {
	conn, err := g.listener.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return
		}

		var req controlRequest
		if err := json.Unmarshal(line, &req); err != nil {
			return
		}

		switch req.Op {
		case "subscribe":
			resp, _ := json.Marshal(controlResponse{ID: "sub-1"})
			conn.Write(append(resp, '\n'))
		case "unsubscribe":
			resp, _ := json.Marshal(controlResponse{})
			conn.Write(append(resp, '\n'))
		case "frame":
			g.writeFrame(conn)
		}
	}
}

func (g *fakeGateway) writeFrame(conn net.Conn) {
	if g.next >= len(g.frames) || g.frames[g.next] == nil {
		g.next++
		binary.Write(conn, binary.BigEndian, frameHeader{Magic: frameMagic})
		return
	}

	frame := g.frames[g.next]
	g.next++

	hdr := frameHeader{
		Magic:         frameMagic,
		Flags:         frameHasData,
		Seq:           frame.Seq,
		Width:         uint16(frame.Width),
		Height:        uint16(frame.Height),
		Channels:      uint16(frame.Channels),
		TimestampUsec: frame.Timestamp.UnixMicro(),
		PayloadLen:    uint32(len(frame.Data)),
	}
	binary.Write(conn, binary.BigEndian, hdr)
	conn.Write(frame.Data)
}

func testFrame(seq uint64, w, h int) *Frame {
	data := make([]byte, w*h*3)
	for i := range data {
		data[i] = byte(seq)
	}
	return &Frame{
		Seq:       seq,
		Width:     w,
		Height:    h,
		Channels:  3,
		Timestamp: time.Unix(1700000000, int64(seq)*1000),
		Data:      data,
	}
}

func TestStreamClientSubscribeAndFetch(t *testing.T) {
	gateway := newFakeGateway(t, []*Frame{
		testFrame(1, 4, 3),
		nil, // gateway had no frame ready
		testFrame(2, 4, 3),
	})

	client, err := NewStreamClient(gateway.addr())
	require.NoError(t, err)
	defer client.Close()

	id, err := client.Subscribe("benchmark_2_30", SubscribeParams{
		Camera:     CameraTop,
		Resolution: ResolutionVGA,
		Colorspace: ColorspaceRGB,
		FPS:        30,
	})
	require.NoError(t, err)
	assert.Equal(t, "sub-1", id)

	ctx := context.Background()

	frame, err := client.GetFrame(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, frame)
	assert.Equal(t, uint64(1), frame.Seq)
	assert.Equal(t, 4, frame.Width)
	assert.Equal(t, 3, frame.Height)
	assert.Equal(t, 3, frame.Channels)
	assert.Len(t, frame.Data, 4*3*3)
	assert.Equal(t, int64(1700000000_000_001), frame.Timestamp.UnixMicro())

	// Empty answer maps to (nil, nil), the caller's dropped-frame path.
	frame, err = client.GetFrame(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, frame)

	frame, err = client.GetFrame(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, frame)
	assert.Equal(t, uint64(2), frame.Seq)

	require.NoError(t, client.Unsubscribe(id))
}

func TestStreamClientRejectsUnknownSubscription(t *testing.T) {
	gateway := newFakeGateway(t, nil)

	client, err := NewStreamClient(gateway.addr())
	require.NoError(t, err)
	defer client.Close()

	_, err = client.GetFrame(context.Background(), "nope")
	assert.Error(t, err)

	assert.Error(t, client.Unsubscribe("nope"))
}

func TestStreamClientDialFailure(t *testing.T) {
	_, err := NewStreamClient("127.0.0.1:1")

	require.Error(t, err)
	var connErr *ConnectionError
	assert.ErrorAs(t, err, &connErr)
}

func TestResolutionByIndex(t *testing.T) {
	res, err := ResolutionByIndex(ResolutionVGA)
	require.NoError(t, err)
	assert.Equal(t, 640, res.Width)
	assert.Equal(t, 480, res.Height)
	assert.Equal(t, "VGA", res.Name)
	assert.Equal(t, 640*480, res.PixelCount())

	_, err = ResolutionByIndex(42)
	assert.Error(t, err)

	assert.Equal(t, "QVGA", ResolutionName(ResolutionQVGA))
	assert.Equal(t, "resolution-9", ResolutionName(9))
}
