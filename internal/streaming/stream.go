package streaming

import (
	"context"
	"errors"
	"time"

	"folio_backend/internal/logger"
)

// ErrSendTimeout reports a consumer that failed to drain a frame in time.
var ErrSendTimeout = errors.New("stream send timed out")

// DefaultSendTimeout bounds how long a producer waits on a slow consumer
// before abandoning the stream.
const DefaultSendTimeout = 10 * time.Second

// Stream hands ordered byte frames from one producer to one consumer. The
// channel holds a single frame, so the producer is throttled by the slower
// of the part fetch and the client drain.
type Stream struct {
	frames      chan []byte
	sendTimeout time.Duration
}

func New(sendTimeout time.Duration) *Stream {
	return &Stream{
		frames:      make(chan []byte, 1),
		sendTimeout: sendTimeout,
	}
}

// Send blocks until the consumer takes the frame or the timeout elapses.
func (s *Stream) Send(frame []byte) error {
	select {
	case s.frames <- frame:
		return nil
	case <-time.After(s.sendTimeout):
		return ErrSendTimeout
	}
}

// Close ends the stream; the consumer sees a closed channel after draining.
// Must only be called by the producer side, exactly once.
func (s *Stream) Close() {
	close(s.frames)
}

// Frames is the consumer end.
func (s *Stream) Frames() <-chan []byte {
	return s.frames
}

// FetchFunc loads one chain part, returning its decoded bytes and the UUID
// of its successor, if any.
type FetchFunc func(partUUID string) (frame []byte, nextUUID *string, err error)

// Walk follows successor pointers starting at startUUID, pushing each
// part's bytes into the stream, and closes the stream when the chain ends.
// A fetch failure or a stalled consumer ends the stream silently; the
// response status is committed by then, so there is nobody left to tell.
func Walk(ctx context.Context, s *Stream, startUUID string, fetch FetchFunc) {
	defer s.Close()

	next := &startUUID
	for next != nil {
		frame, nextUUID, err := fetch(*next)
		if err != nil {
			logger.CtxWithError(ctx, "fetching chain part mid-stream failed", err, "uuid", *next)
			return
		}
		if err := s.Send(frame); err != nil {
			logger.CtxWarn(ctx, "stream consumer stalled, abandoning chain", "uuid", *next)
			return
		}
		next = nextUUID
	}
}
