package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/npillmayer/splines/editor"
)

// ErrScript indicates a malformed line of an editing script.
var ErrScript = errors.New("illegal script line")

// Replay reads editing events from r, one per line, and feeds them to a
// session. Replay stops at the first malformed line and reports its line
// number.
func Replay(s *editor.Session, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := event(s, strings.Fields(line)); err != nil {
			return fmt.Errorf("line %d: %w", lineno, err)
		}
	}
	return scanner.Err()
}

func event(s *editor.Session, fields []string) error {
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "mode":
		if len(args) != 1 {
			return fmt.Errorf("%w: mode takes one key", ErrScript)
		}
		m, err := editor.ParseMode(args[0])
		if err != nil {
			return err
		}
		s.SetMode(m)
	case "press", "move", "click":
		x, y, err := coords(cmd, args)
		if err != nil {
			return err
		}
		tracer().Debugf("%s (%g,%g)", cmd, x, y)
		switch cmd {
		case "press":
			s.Press(x, y)
		case "move":
			s.Move(x, y)
		default:
			s.Press(x, y)
			s.Release()
		}
	case "release":
		s.Release()
	case "resize":
		w, h, err := coords(cmd, args)
		if err != nil {
			return err
		}
		s.Resize(int(w), int(h))
	default:
		return fmt.Errorf("%w: unknown event %q", ErrScript, fields[0])
	}
	return nil
}

func coords(cmd string, args []string) (float64, float64, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("%w: %s takes 2 coordinates", ErrScript, cmd)
	}
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrScript, err)
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrScript, err)
	}
	return x, y, nil
}
