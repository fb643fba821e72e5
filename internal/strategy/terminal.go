package strategy

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/idilsaglam/todo/internal/protocol"
	"github.com/muesli/cancelreader"
)

// Terminal is a line based channel over an input and an output stream.
// Answers are read one line at a time; the next read is only issued after
// the message hook returned.
type Terminal struct {
	Hooks

	out    io.Writer
	reader cancelreader.CancelReader
	log    *log.Logger

	mu      sync.Mutex
	lastTag protocol.Tag
	ended   bool
	endOnce sync.Once
}

// NewTerminal wraps in so a pending read can be cancelled by End.
func NewTerminal(in io.Reader, out io.Writer, logger *log.Logger) (*Terminal, error) {
	r, err := cancelreader.NewReader(in)
	if err != nil {
		// Regular files can't be polled. The fallback still refuses reads
		// after End, it only can't interrupt one already in flight.
		r, err = cancelreader.NewReader(struct{ io.Reader }{in})
		if err != nil {
			return nil, fmt.Errorf("cancel reader: %w", err)
		}
	}
	return &Terminal{
		out:    out,
		reader: r,
		log:    logger.With("strategy", "terminal"),
	}, nil
}

// Send writes the text as is. The tag is not printed; it is remembered so
// the next line read is attributed to the prompt that asked for it.
func (t *Terminal) Send(msg protocol.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ended {
		return
	}
	if msg.Tagged() {
		t.lastTag = msg.Type
	}
	if _, err := io.WriteString(t.out, msg.Text); err != nil {
		t.log.Warn("write failed", "err", err)
	}
}

func (t *Terminal) End() {
	t.endOnce.Do(func() {
		t.mu.Lock()
		t.ended = true
		t.mu.Unlock()
		t.reader.Cancel()
		t.log.Debug("ended")
	})
}

func (t *Terminal) Run(ctx context.Context) error {
	defer t.reader.Close()
	stop := context.AfterFunc(ctx, t.End)
	defer stop()

	if t.isEnded() {
		return nil
	}
	t.EmitConnect()

	br := bufio.NewReader(t.reader)
	for {
		if t.isEnded() {
			return nil
		}
		line, err := br.ReadString('\n')
		if t.isEnded() {
			return nil
		}
		if err == nil || line != "" {
			t.EmitMessage(protocol.Message{
				Text: strings.TrimRight(line, "\r\n"),
				Type: t.tag(),
			})
			if t.isEnded() {
				return nil
			}
		}
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			t.log.Debug("input closed")
			t.EmitDisconnect()
			return nil
		case errors.Is(err, cancelreader.ErrCanceled):
			return nil
		default:
			return fmt.Errorf("read line: %w", err)
		}
	}
}

func (t *Terminal) isEnded() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ended
}

func (t *Terminal) tag() protocol.Tag {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastTag
}
