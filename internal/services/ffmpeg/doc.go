// Package ffmpeg shells out to ffmpeg for the two media transforms the
// pipeline needs: audio extraction for transcription and clip rendering.
package ffmpeg
