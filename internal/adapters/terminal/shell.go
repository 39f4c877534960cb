// Package terminal is a line-based chat shell over a conversation session.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PabloGalante/folio-agent/internal/app/conversation"
	"github.com/PabloGalante/folio-agent/internal/domain"
)

const quitCommand = "/quit"

type Shell struct {
	chat   *conversation.Service
	in     io.Reader
	out    io.Writer
	render func(string) string
}

// NewShell creates a shell. render formats assistant replies; nil prints
// them as is.
func NewShell(chat *conversation.Service, in io.Reader, out io.Writer, render func(string) string) *Shell {
	if render == nil {
		render = func(s string) string { return s }
	}
	return &Shell{chat: chat, in: in, out: out, render: render}
}

// Run opens a session and answers one line at a time until /quit, end of
// input or ctx is done. The session is ended on return.
func (s *Shell) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	snap, err := s.chat.StartSession(ctx)
	if err != nil {
		return fmt.Errorf("starting session: %w", err)
	}
	defer s.chat.EndSession(context.WithoutCancel(ctx), snap.SessionID)

	for _, t := range snap.Transcript {
		s.printTurn(t)
	}
	if snap.Enabled() {
		fmt.Fprintf(s.out, "Ask about the artist. Type %s to leave.\n", quitCommand)
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		s.prompt()

		var line string
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-lines:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(l)
		}

		if line == quitCommand {
			return nil
		}

		out, ok, err := s.submit(ctx, snap.SessionID, line)
		if !ok {
			// the deferred EndSession abandons the call in flight
			return nil
		}
		switch {
		case errors.Is(err, domain.ErrBlankInput):
			continue
		case errors.Is(err, domain.ErrChatDisabled):
			fmt.Fprintln(s.out, "Chat is unavailable.")
			continue
		case err != nil:
			return err
		}

		if n := len(out.Transcript); n > 0 {
			s.printTurn(out.Transcript[n-1])
		}
	}
}

// submit waits for the response cycle or for ctx, whichever ends first.
// ok is false when ctx ended first.
func (s *Shell) submit(ctx context.Context, id domain.SessionID, line string) (domain.Snapshot, bool, error) {
	type result struct {
		snap domain.Snapshot
		err  error
	}
	done := make(chan result, 1)
	go func() {
		snap, err := s.chat.Submit(ctx, id, line)
		done <- result{snap: snap, err: err}
	}()

	select {
	case <-ctx.Done():
		return domain.Snapshot{}, false, nil
	case r := <-done:
		return r.snap, true, r.err
	}
}

func (s *Shell) prompt() {
	fmt.Fprint(s.out, "> ")
}

func (s *Shell) printTurn(t domain.Turn) {
	if t.Role != domain.RoleAssistant {
		return
	}
	fmt.Fprintln(s.out, s.render(t.Content))
}
