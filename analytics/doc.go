// Package analytics records one data point per API request.
//
// A DataPoint carries eight string blobs followed by two doubles. The
// layout is append-only: dashboards address fields by position, so new
// fields go at the end.
//
// A Writer builds the point from the request and hands it to a Sink in the
// background. Sink failures are logged and never reach the caller.
package analytics
