package dictionary

import "context"

// Fetcher issues a single HTTP GET and returns the response whatever its status code.
// An error means no response was received at all.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (Page, error)
}

// Node is a single element found in a parsed page.
type Node interface {
	// Text returns the concatenated text of every descendant.
	Text() string
	// SpacedText returns each descendant text run trimmed and joined by a single space,
	// dropping runs that are empty after trimming.
	SpacedText() string
	Attr(name string) (string, bool)
}

// Document answers the element lookups the scrapers need.
type Document interface {
	FindFirstByClass(tag, class string) (Node, bool)
	FindAllByClass(tag, class string) []Node
}
