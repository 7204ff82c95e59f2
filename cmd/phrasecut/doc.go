// Command phrasecut drives the idiom clip pipeline: it scans a media
// directory, advances every tracked item through audio extraction,
// transcription, idiom recognition, and clip rendering, and exposes the
// resulting statistics.
package main
