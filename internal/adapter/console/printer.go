package console

import (
	"fmt"
	"io"
)

// Printer writes one line per call to an io.Writer, usually os.Stdout.
type Printer struct {
	w io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) PrintLine(text string) error {
	_, err := fmt.Fprintln(p.w, text)
	return err
}
