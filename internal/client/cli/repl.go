package cli

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	List(ctx context.Context, query url.Values) error
	Search(ctx context.Context, term string) error
	Show(ctx context.Context, id int64) error
	Register(ctx context.Context) error
	Whoami(ctx context.Context) error
	Logout(ctx context.Context) error
}

const replHelp = `Available commands:
  list [key=value ...]  latest entries; keys: page, size, s, t, author, star, q
  search <terms>        full-text search
  show <id>             one entry with recommendations
  register              create an account
  whoami                profile remembered on this machine
  logout                forget that profile
  exit | quit           leave the shell`

// runREPL reads commands line by line from scanner and dispatches them to
// a. The loop exits on scanner EOF or when the user types "exit" or
// "quit".
//
// Errors returned by command handlers are not fatal; handlers print their
// own feedback and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("hyperblog (%s)> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(replHelp)

		case "l", "list":
			query, err := parseListArgs(args)
			if err != nil {
				printlnFn(err.Error())
				continue
			}
			_ = a.List(ctx, query)

		case "search":
			if len(args) == 0 {
				printlnFn("Usage: search <terms>")
				continue
			}
			_ = a.Search(ctx, strings.Join(args, " "))

		case "show":
			if len(args) != 1 {
				printlnFn("Usage: show <id>")
				continue
			}
			id, err := parseID(args[0])
			if err != nil {
				printlnFn(err.Error())
				continue
			}
			_ = a.Show(ctx, id)

		case "register":
			if err := a.Register(ctx); err != nil {
				printlnFn("Registration stopped:", err)
			}

		case "whoami":
			_ = a.Whoami(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

// parseListArgs turns "page=2 author=7" into a query.
func parseListArgs(args []string) (url.Values, error) {
	q := url.Values{}
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		q.Set(k, v)
	}
	return q, nil
}

// lineReader hands out at most one line per Read, so a Scanner on top of it
// never buffers input that a command prompt reading r should see.
type lineReader struct {
	r       *bufio.Reader
	pending []byte
}

func (l *lineReader) Read(p []byte) (int, error) {
	if len(l.pending) == 0 {
		line, err := l.r.ReadBytes('\n')
		if len(line) == 0 {
			return 0, err
		}
		l.pending = line
	}
	n := copy(p, l.pending)
	l.pending = l.pending[n:]
	return n, nil
}
