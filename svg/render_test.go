package svg

import (
	"encoding/xml"
	"io"
	"net/url"
	"strings"
	"testing"

	"github.com/jonwraymond/placeholders/options"
)

func resolve(params map[string]string) options.ImageOptions {
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	return options.FromQuery(q)
}

func TestRender_Golden(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
		want   string
	}{
		{
			name:   "text only",
			params: map[string]string{"width": "350", "height": "100", "text": "Hello World"},
			want:   `<svg xmlns="http://www.w3.org/2000/svg" width="350" height="100" viewBox="0 0 350 100"><rect fill="#ddd" width="350" height="100"/><text fill="rgba(0,0,0,0.5)" font-family="sans-serif" font-size="20" dy="7" font-weight="bold" x="50%" y="50%" text-anchor="middle">Hello World</text></svg>`,
		},
		{
			name:   "default text",
			params: map[string]string{"width": "200", "height": "100", "bgColor": "#000", "textColor": "rgba(255,255,255,0.5)"},
			want:   `<svg xmlns="http://www.w3.org/2000/svg" width="200" height="100" viewBox="0 0 200 100"><rect fill="#000" width="200" height="100"/><text fill="rgba(255,255,255,0.5)" font-family="sans-serif" font-size="20" dy="7" font-weight="bold" x="50%" y="50%" text-anchor="middle">200×100</text></svg>`,
		},
		{
			name:   "custom colors",
			params: map[string]string{"width": "140", "height": "100", "bgColor": "#313131", "textColor": "#dfdfde"},
			want:   `<svg xmlns="http://www.w3.org/2000/svg" width="140" height="100" viewBox="0 0 140 100"><rect fill="#313131" width="140" height="100"/><text fill="#dfdfde" font-family="sans-serif" font-size="20" dy="7" font-weight="bold" x="50%" y="50%" text-anchor="middle">140×100</text></svg>`,
		},
		{
			name:   "wide",
			params: map[string]string{"width": "1055", "height": "100", "text": "Hello World", "bgColor": "#434343", "textColor": "#dfdfde"},
			want:   `<svg xmlns="http://www.w3.org/2000/svg" width="1055" height="100" viewBox="0 0 1055 100"><rect fill="#434343" width="1055" height="100"/><text fill="#dfdfde" font-family="sans-serif" font-size="20" dy="7" font-weight="bold" x="50%" y="50%" text-anchor="middle">Hello World</text></svg>`,
		},
		{
			name:   "no wrap",
			params: map[string]string{"width": "250", "height": "200", "text": "This text is too long", "bgColor": "#f7f6f6", "textWrap": "false"},
			want:   `<svg xmlns="http://www.w3.org/2000/svg" width="250" height="200" viewBox="0 0 250 200"><rect fill="#f7f6f6" width="250" height="200"/><text fill="rgba(0,0,0,0.5)" font-family="sans-serif" font-size="40" dy="14" font-weight="bold" x="50%" y="50%" text-anchor="middle">This text is too long</text></svg>`,
		},
		{
			name:   "wrap",
			params: map[string]string{"width": "250", "height": "200", "text": "This text is too long", "bgColor": "#f7f6f6", "textWrap": "true"},
			want:   `<svg xmlns="http://www.w3.org/2000/svg" width="250" height="200" viewBox="0 0 250 200"><rect fill="#f7f6f6" width="250" height="200"/><foreignObject width="250" height="200"><div xmlns="http://www.w3.org/1999/xhtml" style="align-items: center;box-sizing: border-box;color: rgba(0,0,0,0.5);display: flex;font-family: sans-serif;font-size: 40px;font-weight: bold;height: 100%;line-height: 1.2;justify-content: center;padding: 0.5em;text-align: center;width: 100%;">This text is too long</div> </foreignObject></svg>`,
		},
		{
			name:   "dark mode",
			params: map[string]string{"width": "300", "height": "150", "darkBgColor": "#222", "darkTextColor": "#eee"},
			want:   `<svg xmlns="http://www.w3.org/2000/svg" width="300" height="150" viewBox="0 0 300 150"><style>@media (prefers-color-scheme: dark) {rect { fill: #222; }text { fill: #eee; }div { color: #eee !important; }}</style><rect fill="#ddd" width="300" height="150"/><text fill="rgba(0,0,0,0.5)" font-family="sans-serif" font-size="30" dy="10.5" font-weight="bold" x="50%" y="50%" text-anchor="middle">300×150</text></svg>`,
		},
		{
			name:   "dark background only",
			params: map[string]string{"darkBgColor": "black"},
			want:   `<svg xmlns="http://www.w3.org/2000/svg" width="300" height="150" viewBox="0 0 300 150"><style>@media (prefers-color-scheme: dark) {rect { fill: black; }}</style><rect fill="#ddd" width="300" height="150"/><text fill="rgba(0,0,0,0.5)" font-family="sans-serif" font-size="30" dy="10.5" font-weight="bold" x="50%" y="50%" text-anchor="middle">300×150</text></svg>`,
		},
		{
			name:   "explicit font",
			params: map[string]string{"width": "300", "height": "300", "fontSize": "12", "dy": "0", "fontWeight": "400", "fontFamily": "Georgia, serif"},
			want:   `<svg xmlns="http://www.w3.org/2000/svg" width="300" height="300" viewBox="0 0 300 300"><rect fill="#ddd" width="300" height="300"/><text fill="rgba(0,0,0,0.5)" font-family="Georgia, serif" font-size="12" dy="0" font-weight="400" x="50%" y="50%" text-anchor="middle">300×300</text></svg>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(resolve(tt.params))
			if got != tt.want {
				t.Errorf("Render() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestRender_HostileInputStaysInert(t *testing.T) {
	params := map[string]string{
		"text":       `<script>alert("XSS")</script>Hi <img src=x onerror=alert(1)>`,
		"fontFamily": `serif"; onload="alert(1)`,
		"bgColor":    `red" onload="alert(1)`,
		"textColor":  `url(javascript:alert(1))`,
	}
	got := Render(resolve(params))
	if strings.Contains(got, "javascript") {
		t.Errorf("Render() contains javascript:\n%s", got)
	}
	if !strings.Contains(got, `<rect fill="#ddd"`) {
		t.Errorf("rejected bgColor did not fall back to default:\n%s", got)
	}

	allowed := map[string]bool{"svg": true, "rect": true, "text": true, "style": true, "foreignObject": true, "div": true}
	dec := xml.NewDecoder(strings.NewReader(got))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Token() error = %v\n%s", err, got)
		}
		el, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if !allowed[el.Name.Local] {
			t.Errorf("unexpected element <%s>", el.Name.Local)
		}
		for _, a := range el.Attr {
			if strings.HasPrefix(strings.ToLower(a.Name.Local), "on") {
				t.Errorf("event handler attribute %s=%q on <%s>", a.Name.Local, a.Value, el.Name.Local)
			}
		}
	}
}

func TestMarkup_EscapesTextAndAttributes(t *testing.T) {
	o := options.APIDefaults()
	o.Text = `Tom & Jerry's <b>`
	o.FontFamily = `A&B`
	got := Markup(o)
	if !strings.Contains(got, `>Tom &amp; Jerry&#39;s &lt;b&gt;</text>`) {
		t.Errorf("text not escaped:\n%s", got)
	}
	if !strings.Contains(got, `font-family="A&amp;B"`) {
		t.Errorf("attribute not escaped:\n%s", got)
	}
	assertWellFormed(t, got)
}

func TestMarkup_WellFormed(t *testing.T) {
	for _, wrap := range []string{"false", "true"} {
		got := Markup(resolve(map[string]string{
			"text":          "a & b",
			"textWrap":      wrap,
			"darkTextColor": "white",
		}))
		assertWellFormed(t, got)
	}
}

func TestMarkup_Compacts(t *testing.T) {
	o := options.APIDefaults()
	o.Text = "line\none\t\ttabbed    spaced"
	got := Markup(o)
	if strings.ContainsAny(got, "\t\n\r") {
		t.Errorf("Markup() contains line breaks or tabs:\n%q", got)
	}
	if !strings.Contains(got, ">lineonetabbed spaced</text>") {
		t.Errorf("text not compacted:\n%s", got)
	}
}

func TestRender_Deterministic(t *testing.T) {
	o := resolve(map[string]string{"width": "640", "height": "480", "textWrap": "1", "darkBgColor": "#000"})
	first := Render(o)
	for i := 0; i < 10; i++ {
		if got := Render(o); got != first {
			t.Fatalf("Render() call %d differs:\n%s\n%s", i, got, first)
		}
	}
}

func TestRender_DataURI(t *testing.T) {
	o := options.Defaults()
	o.Width, o.Height = 100, 100
	got := Render(o)
	const prefix = "data:image/svg+xml;charset=UTF-8,"
	if !strings.HasPrefix(got, prefix) {
		t.Fatalf("Render() = %q, want prefix %q", got, prefix)
	}
	encoded := strings.TrimPrefix(got, prefix)
	if strings.ContainsAny(encoded, "()<> \"") {
		t.Errorf("encoded payload contains raw reserved characters: %q", encoded)
	}
	decoded, err := url.PathUnescape(encoded)
	if err != nil {
		t.Fatalf("PathUnescape() error = %v", err)
	}
	if decoded != Markup(o) {
		t.Errorf("decoded = %q, want %q", decoded, Markup(o))
	}
}

func TestDataURI(t *testing.T) {
	tests := []struct {
		markup  string
		charset string
		want    string
	}{
		{
			markup:  `<svg>it's (1)!</svg>`,
			charset: "UTF-8",
			want:    `data:image/svg+xml;charset=UTF-8,%3Csvg%3Eit's%20%281%29!%3C%2Fsvg%3E`,
		},
		{
			markup:  `a+b*c~d`,
			charset: "",
			want:    `data:image/svg+xml;charset=UTF-8,a%2Bb*c~d`,
		},
		{
			markup:  `×`,
			charset: "utf8",
			want:    `data:image/svg+xml;charset=utf8,%C3%97`,
		},
	}
	for _, tt := range tests {
		if got := DataURI(tt.markup, tt.charset); got != tt.want {
			t.Errorf("DataURI(%q, %q) = %q, want %q", tt.markup, tt.charset, got, tt.want)
		}
	}
}

func assertWellFormed(t *testing.T, markup string) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(markup))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return
		}
		if err != nil {
			t.Fatalf("markup is not well-formed XML: %v\n%s", err, markup)
		}
	}
}
