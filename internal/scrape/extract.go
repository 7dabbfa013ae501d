package scrape

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"recast/internal/textutil"
	"recast/internal/transcript"
)

// Extract walks the transcript container in document order. Each
// h2[id^=chapter] opens a new chapter, numbered from 0, and each div.ts-segment
// that follows becomes a segment of the current chapter. Segments before the
// first chapter heading are ignored. A page without the container yields no
// chapters.
func Extract(page string) ([]transcript.Chapter, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	content := doc.Find("div.entry-content").First()
	if content.Length() == 0 {
		return nil, nil
	}

	var chapters []transcript.Chapter
	content.Find("*").Each(func(_ int, el *goquery.Selection) {
		switch {
		case isChapterHeading(el):
			chapters = append(chapters, transcript.Chapter{
				No:       transcript.NewChapterNo(len(chapters)),
				Title:    textutil.NormalizeText(el.Text()),
				Segments: []transcript.Segment{},
			})
		case len(chapters) > 0 && goquery.NodeName(el) == "div" && el.HasClass("ts-segment"):
			current := &chapters[len(chapters)-1]
			current.Segments = append(current.Segments, extractSegment(el))
		}
	})
	return chapters, nil
}

func isChapterHeading(el *goquery.Selection) bool {
	if goquery.NodeName(el) != "h2" {
		return false
	}
	id, ok := el.Attr("id")
	return ok && strings.HasPrefix(id, "chapter")
}

func extractSegment(el *goquery.Selection) transcript.Segment {
	seg := transcript.Segment{
		Speaker: textutil.NormalizeText(el.Find("span.ts-name").First().Text()),
		Text:    textutil.NormalizeText(el.Find("span.ts-text").First().Text()),
	}
	if href, ok := el.Find("span.ts-timestamp a[href]").First().Attr("href"); ok {
		seg.Timestamp = timestampFromHref(href)
	}
	return seg
}

// timestampFromHref returns the value of the last t= parameter in the
// URL-decoded link, up to the next '&'.
func timestampFromHref(href string) string {
	decoded, err := url.PathUnescape(href)
	if err != nil {
		decoded = href
	}
	i := strings.LastIndex(decoded, "t=")
	if i < 0 {
		return ""
	}
	value := decoded[i+2:]
	if amp := strings.IndexByte(value, '&'); amp >= 0 {
		value = value[:amp]
	}
	return value
}
