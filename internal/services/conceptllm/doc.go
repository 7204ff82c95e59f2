// Package conceptllm turns transcript segments into recognized idioms by
// prompting a chat-completion model in bounded batches.
package conceptllm
