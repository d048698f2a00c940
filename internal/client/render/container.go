package render

import (
	"fmt"
	"io"
	"sync"
)

// Container receives fragments in display order.
type Container interface {
	Append(f Fragment) error
}

// WriterContainer writes fragments to w separated by a blank line.
// Append is safe for concurrent use.
type WriterContainer struct {
	mu    sync.Mutex
	w     io.Writer
	count int
}

func NewWriterContainer(w io.Writer) *WriterContainer {
	return &WriterContainer{w: w}
}

func (c *WriterContainer) Append(f Fragment) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.count > 0 {
		if _, err := fmt.Fprintln(c.w); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(c.w, f.Text); err != nil {
		return err
	}
	c.count++
	return nil
}

// Len reports how many fragments were appended.
func (c *WriterContainer) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}
