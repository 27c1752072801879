package port

type LinePrinter interface {
	// PrintLine writes text followed by a newline
	PrintLine(text string) error
}
