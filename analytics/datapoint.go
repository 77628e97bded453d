package analytics

import (
	"crypto/tls"
	"net/http"
	"strconv"
	"strings"

	"github.com/jonwraymond/placeholders/cache"
)

// Blob positions.
const (
	BlobURL = iota
	BlobUserAgent
	BlobReferer
	BlobProtocol
	BlobCity
	BlobColo
	BlobCountry
	BlobTLSVersion
	numBlobs
)

// Double positions.
const (
	DoubleASN = iota
	DoubleCached
	numDoubles
)

// DataPoint is one analytics record.
type DataPoint struct {
	Blobs   []string  `bson:"blobs" json:"blobs"`
	Doubles []float64 `bson:"doubles" json:"doubles"`
}

// Blob returns the blob at i, or "".
func (p DataPoint) Blob(i int) string {
	if i < 0 || i >= len(p.Blobs) {
		return ""
	}
	return p.Blobs[i]
}

// Cached reports whether the point was served from the cache.
func (p DataPoint) Cached() bool {
	return len(p.Doubles) > DoubleCached && p.Doubles[DoubleCached] == 1
}

// GeoHeaders names the request headers the edge proxy sets with client
// location data.
type GeoHeaders struct {
	City    string
	Colo    string
	Country string
	ASN     string
}

// DefaultGeoHeaders returns the Cloudflare header names.
func DefaultGeoHeaders() GeoHeaders {
	return GeoHeaders{
		City:    "CF-IPCity",
		Colo:    "CF-Colo",
		Country: "CF-IPCountry",
		ASN:     "CF-ASN",
	}
}

// FromRequest builds the data point for r. Missing values take the
// placeholders "invalid", "unknown city", "missing colo", "missing
// country", "invalid TLS" and 0.
func FromRequest(r *http.Request, geo GeoHeaders, cached bool) DataPoint {
	blobs := make([]string, numBlobs)
	blobs[BlobURL] = cache.RequestURL(r).String()
	blobs[BlobUserAgent] = r.Header.Get("User-Agent")
	blobs[BlobReferer] = r.Header.Get("Referer")
	blobs[BlobProtocol] = or(r.Proto, "invalid")
	blobs[BlobCity] = or(header(r, geo.City), "unknown city")
	blobs[BlobColo] = or(header(r, geo.Colo), "missing colo")
	blobs[BlobCountry] = or(header(r, geo.Country), "missing country")
	blobs[BlobTLSVersion] = tlsVersion(r)

	doubles := make([]float64, numDoubles)
	if asn, err := strconv.ParseFloat(header(r, geo.ASN), 64); err == nil && asn > 0 {
		doubles[DoubleASN] = asn
	}
	if cached {
		doubles[DoubleCached] = 1
	}
	return DataPoint{Blobs: blobs, Doubles: doubles}
}

func header(r *http.Request, name string) string {
	if name == "" {
		return ""
	}
	return strings.TrimSpace(r.Header.Get(name))
}

func tlsVersion(r *http.Request) string {
	if r.TLS == nil || r.TLS.Version == 0 {
		return "invalid TLS"
	}
	// TLS 1.3 -> TLSv1.3
	return strings.Replace(tls.VersionName(r.TLS.Version), "TLS ", "TLSv", 1)
}

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
