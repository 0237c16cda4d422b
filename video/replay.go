package video

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// frameNumberPattern extracts the trailing number of corpus file names like
// frame-17.png so replay order follows capture order, not lexical order.
var frameNumberPattern = regexp.MustCompile(`(\d+)\.[A-Za-z]+$`)

// replayFrame is one decoded corpus image.
type replayFrame struct {
	path   string
	number int
	width  int
	height int
	data   []byte
}

// ReplayClient implements Service by cycling through a directory of image
// files at the subscribed frame rate. It gives the benchmark a fully
// deterministic frame source: identical inputs, repeatable spatial
// statistics, no camera required.
type ReplayClient struct {
	dir    string
	frames []replayFrame

	mu     sync.Mutex
	subID  string
	seq    uint64
	next   int
	due    time.Time
	pacing time.Duration
}

// NewReplayClient loads all .png/.jpg/.jpeg files from dir.
func NewReplayClient(dir string) (*ReplayClient, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &ConnectionError{Addr: dir, Err: err}
	}

	var frames []replayFrame
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".png", ".jpg", ".jpeg":
		default:
			continue
		}

		path := filepath.Join(dir, entry.Name())
		frame, err := loadReplayFrame(path)
		if err != nil {
			return nil, errors.Wrapf(err, "load %s", path)
		}
		frames = append(frames, frame)
	}
	if len(frames) == 0 {
		return nil, &ConnectionError{
			Addr: dir,
			Err:  fmt.Errorf("no image files in %s", dir),
		}
	}

	sort.Slice(frames, func(i, j int) bool {
		if frames[i].number != frames[j].number {
			return frames[i].number < frames[j].number
		}
		return frames[i].path < frames[j].path
	})

	return &ReplayClient{dir: dir, frames: frames}, nil
}

func loadReplayFrame(path string) (replayFrame, error) {
	file, err := os.Open(path)
	if err != nil {
		return replayFrame{}, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return replayFrame{}, err
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	data := make([]byte, 0, width*height*3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			data = append(data, uint8(r>>8), uint8(g>>8), uint8(b>>8))
		}
	}

	number := -1
	if m := frameNumberPattern.FindStringSubmatch(filepath.Base(path)); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			number = n
		}
	}

	return replayFrame{
		path:   path,
		number: number,
		width:  width,
		height: height,
		data:   data,
	}, nil
}

// Subscribe starts replay at the requested frame rate. The resolution index
// is ignored: frames keep their on-disk dimensions.
func (r *ReplayClient) Subscribe(name string, params SubscribeParams) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.subID = fmt.Sprintf("%s_replay", name)
	r.next = 0
	r.due = time.Time{}
	r.pacing = 0
	if params.FPS > 0 {
		r.pacing = time.Second / time.Duration(params.FPS)
	}
	return r.subID, nil
}

// GetFrame returns the next corpus frame, sleeping as needed to honor the
// subscribed frame rate, and wraps around at the end of the corpus.
func (r *ReplayClient) GetFrame(ctx context.Context, id string) (*Frame, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id == "" || id != r.subID {
		return nil, errors.Errorf("unknown subscription id %q", id)
	}

	if r.pacing > 0 {
		if wait := time.Until(r.due); wait > 0 {
			timer := time.NewTimer(wait)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		r.due = time.Now().Add(r.pacing)
	}

	src := r.frames[r.next]
	r.next = (r.next + 1) % len(r.frames)
	r.seq++

	data := make([]byte, len(src.data))
	copy(data, src.data)

	return &Frame{
		Seq:       r.seq,
		Width:     src.width,
		Height:    src.height,
		Channels:  3,
		Timestamp: time.Now(),
		Data:      data,
	}, nil
}

// Unsubscribe stops the replay subscription.
func (r *ReplayClient) Unsubscribe(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id == "" || id != r.subID {
		return errors.Errorf("unknown subscription id %q", id)
	}
	r.subID = ""
	return nil
}

// Close is a no-op; the corpus lives in memory.
func (r *ReplayClient) Close() error { return nil }

// Len returns the number of frames in the corpus.
func (r *ReplayClient) Len() int { return len(r.frames) }
