package encoder

import "path/filepath"

// The rendition ladder is a static configuration: three H.264 video
// representations sharing the source audio track, packaged as DASH with an
// explicit segment list (no templates, no timelines).
const (
	manifestName    = "manifest.mpd"
	segmentSeconds  = "2"
	gopSize         = "120"
	thumbnailOffset = "00:00:10"
)

// transcodeArgs builds the full ffmpeg argument list for the three-rendition
// DASH package. The decoded video is split and scaled to 480p/720p/1080p;
// each scaled stream pairs with the original audio.
func transcodeArgs(inputPath, outputDir string) []string {
	manifestPath := filepath.Join(outputDir, manifestName)
	args := make([]string, 0, 64)

	args = append(args,
		"-loglevel", "error",
		"-i", inputPath,
		"-filter_complex",
		"[0:v]split=3[vsd][vhd][vuhd];"+
			"[vsd]scale=854:480[voutsd];"+
			"[vhd]scale=1280:720[vouthd];"+
			"[vuhd]scale=1920:1080[voutuhd]",
	)

	// SD rendition
	args = append(args,
		"-map", "[voutsd]", "-map", "0:a",
		"-b:v:0", "2M", "-c:v:0", "libx264", "-g", gopSize, "-keyint_min", gopSize,
		"-preset", "fast", "-profile:v:0", "main",
	)

	// HD rendition
	args = append(args,
		"-map", "[vouthd]", "-map", "0:a",
		"-b:v:1", "6M", "-c:v:1", "libx264", "-g", gopSize, "-keyint_min", gopSize,
		"-preset", "fast", "-profile:v:1", "main",
	)

	// Full HD rendition
	args = append(args,
		"-map", "[voutuhd]", "-map", "0:a",
		"-b:v:2", "10M", "-c:v:2", "libx264", "-g", gopSize, "-keyint_min", gopSize,
		"-preset", "fast", "-profile:v:2", "high",
	)

	// DASH packaging: explicit segment lists keyed by representation id and
	// segment number, two adaptation sets (all video, all audio).
	args = append(args,
		"-f", "dash",
		"-use_template", "0",
		"-use_timeline", "0",
		"-seg_duration", segmentSeconds,
		"-init_seg_name", "init-$RepresentationID$.mp4",
		"-media_seg_name", "segment-$RepresentationID$-$Number$.m4s",
		"-adaptation_sets", "id=0,streams=v id=1,streams=a",
		manifestPath,
	)

	return args
}

// thumbnailArgs builds the ffmpeg argument list extracting one frame at a
// fixed offset, overwriting any existing output.
func thumbnailArgs(inputPath, outputPath string) []string {
	return []string{
		"-loglevel", "error",
		"-y",
		"-i", inputPath,
		"-ss", thumbnailOffset,
		"-vframes", "1",
		"-q:v", "2",
		outputPath,
	}
}
