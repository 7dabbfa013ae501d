// Package scrape fetches an episode page and extracts its chapter and segment
// structure.
//
// The page is expected to hold a div.entry-content container with h2 chapter
// headings whose ids start with "chapter", each followed by div.ts-segment
// blocks carrying span.ts-name, span.ts-text, and a span.ts-timestamp link.
package scrape
