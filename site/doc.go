// Package site serves the static landing site next to the image API.
//
// Files come from an fs.FS. Directories and extensionless paths map to
// their index.html, a missing file falls back to 404.html, and HTML pages
// get the security headers and the edge-location rewrite before they are
// written. Cache-Control follows cache.StaticPolicy.
package site
