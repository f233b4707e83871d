package gazesource

// #region imports
import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net"
	"strings"
	"sync"

	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/emotion"
)

// #endregion

// #region client-struct

// Client connects to the external gaze tracker and translates its
// line-delimited JSON stream into canonical samples. Downstream consumers
// read from bounded channels; when a consumer falls behind the oldest
// sample is dropped in favor of the newest.
type Client struct {
	addr   string
	appKey string
	dial   func(ctx context.Context) (net.Conn, error)

	mu        sync.Mutex
	connected bool
	current   emotion.GazeSample

	gazeCh    chan emotion.GazeSample
	emotionCh chan emotion.Sample
}

// channelDepth bounds each consumer queue.
const channelDepth = 64

// NewClient creates a client for the gaze tracker at addr. The app key is
// sent as the handshake line; the server answers with an "ok" line when
// the key is accepted.
func NewClient(addr, appKey string) *Client {
	c := &Client{
		addr:      addr,
		appKey:    appKey,
		gazeCh:    make(chan emotion.GazeSample, channelDepth),
		emotionCh: make(chan emotion.Sample, channelDepth),
	}
	c.dial = func(ctx context.Context) (net.Conn, error) {
		var d net.Dialer
		return d.DialContext(ctx, "tcp", c.addr)
	}
	return c
}

// #endregion client-struct

// #region accessors

// Gaze returns the translated gaze sample stream.
func (c *Client) Gaze() <-chan emotion.GazeSample { return c.gazeCh }

// Emotions returns the stream of emotion samples republished from
// embedded gaze-source hints.
func (c *Client) Emotions() <-chan emotion.Sample { return c.emotionCh }

// Current returns the most recent gaze sample.
func (c *Client) Current() emotion.GazeSample {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Connected reports whether the stream is live.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *Client) setConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}

// #endregion accessors

// #region run

// Run connects, performs the app-key handshake, and pumps the stream until
// the context is cancelled or the connection drops. Malformed records are
// logged and dropped; they never corrupt downstream state.
func (c *Client) Run(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return fmt.Errorf("dial gaze source %s: %w", c.addr, err)
	}
	defer conn.Close()

	// Unblock the reader when the context is cancelled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	if _, err := fmt.Fprintf(conn, "%s\n", c.appKey); err != nil {
		return fmt.Errorf("send app key: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		return fmt.Errorf("gaze source closed before authorization: %w", scanner.Err())
	}
	status := scanner.Text()
	if !strings.HasPrefix(status, "ok") {
		return fmt.Errorf("gaze source rejected app key: %s", status)
	}
	log.Printf("[GAZE] connection authorized: %s", status)

	c.setConnected(true)
	defer c.setConnected(false)

	for scanner.Scan() {
		msg, err := ParseMessage(scanner.Bytes())
		if err != nil {
			log.Printf("[GAZE] dropping malformed message: %v", err)
			continue
		}
		c.mu.Lock()
		c.current = msg.Gaze
		c.mu.Unlock()

		publishGaze(c.gazeCh, msg.Gaze)

		// Republish embedded hints only when a face was seen and the hint
		// is not the source's neutral default.
		if msg.EmotionHint != nil && msg.FaceDetected && msg.EmotionHint.Emotion != emotion.Neutral {
			publishEmotion(c.emotionCh, *msg.EmotionHint)
		}
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("gaze stream: %w", err)
	}
	return nil
}

// #endregion run

// #region publish

// publishGaze enqueues without blocking the reader: a full queue sheds its
// oldest entry first.
func publishGaze(ch chan emotion.GazeSample, s emotion.GazeSample) {
	select {
	case ch <- s:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
	}
}

func publishEmotion(ch chan emotion.Sample, s emotion.Sample) {
	select {
	case ch <- s:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
	}
}

// #endregion publish
