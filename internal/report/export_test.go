package report

import "io"

// SetCreate replaces how report files are opened.
func (w *Writer) SetCreate(fn func(path string) (io.WriteCloser, error)) { w.create = fn }
