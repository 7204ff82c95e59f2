// Package whisperx wraps the WhisperX speech recognition tool, invoked
// through uvx so no local Python environment setup is required.
package whisperx
