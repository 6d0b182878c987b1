// Package objectstore wraps the S3-compatible client used for source and
// destination buckets. The pipeline consumes it through a narrow interface;
// this package only adapts the SDK surface to the operations the job needs.
package objectstore
