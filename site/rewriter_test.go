package site

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestEdgeRewriter_Rewrite(t *testing.T) {
	page := `<html><head><title>x</title>
<meta name="description" content="a">
<meta name="twitter:description" content="b">
<meta property="og:description" content="c">
<meta name="keywords" content="keep">
</head><body><span class="edgeLocations">0</span><span class="other">1</span></body></html>`

	rw := NewEdgeRewriter(275)
	out, err := rw.Rewrite([]byte(page))
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(out)))
	if err != nil {
		t.Fatalf("parse rewritten page: %v", err)
	}

	want := "Generate super fast placeholder images powered by Cloudflare Workers in 275+ edge locations."
	if got := doc.Find("title").Text(); got != want {
		t.Errorf("title = %q, want %q", got, want)
	}
	doc.Find(descriptionSelector).Each(func(i int, s *goquery.Selection) {
		if got, _ := s.Attr("content"); got != want {
			t.Errorf("meta %d content = %q, want %q", i, got, want)
		}
	})
	if got, _ := doc.Find(`meta[name="keywords"]`).Attr("content"); got != "keep" {
		t.Errorf("keywords content = %q, want keep", got)
	}
	if got := doc.Find("span.edgeLocations").Text(); got != "275" {
		t.Errorf("edgeLocations = %q, want 275", got)
	}
	if got := doc.Find("span.other").Text(); got != "1" {
		t.Errorf("other span = %q, want 1", got)
	}
}

func TestNewEdgeRewriter_Default(t *testing.T) {
	if got := NewEdgeRewriter(0).Locations; got != DefaultEdgeLocations {
		t.Errorf("Locations = %d, want %d", got, DefaultEdgeLocations)
	}
}

func TestSecurityHeaders_FreshCopy(t *testing.T) {
	a := SecurityHeaders("")
	a.Set("X-Frame-Options", "SAMEORIGIN")
	b := SecurityHeaders("")
	if got := b.Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
	if got := len(b); got != 7 {
		t.Errorf("len(SecurityHeaders) = %d, want 7", got)
	}
	if got := SecurityHeaders("img.example.com").Get("Content-Security-Policy"); !strings.Contains(got, "data: img.example.com;") {
		t.Errorf("Content-Security-Policy = %q, want custom image host", got)
	}
}
