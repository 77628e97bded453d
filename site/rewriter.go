package site

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

// DefaultEdgeLocations is the advertised number of edge locations.
const DefaultEdgeLocations = 300

const descriptionSelector = `meta[name="description"], meta[name="twitter:description"], meta[property="og:description"]`

// EdgeRewriter stamps the edge-location count into HTML pages: the title
// and description metas get the generated description, and every
// span.edgeLocations gets the bare count.
type EdgeRewriter struct {
	Locations int
}

// NewEdgeRewriter creates a rewriter. A non-positive count takes
// DefaultEdgeLocations.
func NewEdgeRewriter(locations int) *EdgeRewriter {
	if locations <= 0 {
		locations = DefaultEdgeLocations
	}
	return &EdgeRewriter{Locations: locations}
}

// Description returns the page description.
func (rw *EdgeRewriter) Description() string {
	return fmt.Sprintf("Generate super fast placeholder images powered by Cloudflare Workers in %d+ edge locations.", rw.Locations)
}

// Rewrite returns the rewritten document.
func (rw *EdgeRewriter) Rewrite(page []byte) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("site: parse html: %w", err)
	}
	desc := rw.Description()

	doc.Find("title").SetText(desc)
	doc.Find(descriptionSelector).SetAttr("content", desc)
	doc.Find(`span[class*="edgeLocations"]`).SetText(strconv.Itoa(rw.Locations))

	out, err := goquery.OuterHtml(doc.Selection)
	if err != nil {
		return nil, fmt.Errorf("site: render html: %w", err)
	}
	return []byte(out), nil
}
