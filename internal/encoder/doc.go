// Package encoder constructs and runs the two fixed ffmpeg command
// templates: the three-rendition DASH transcode and the thumbnail
// extraction. Argument construction is separated from process execution so
// tests can capture command lines without spawning ffmpeg.
package encoder
