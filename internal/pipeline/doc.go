// Package pipeline orchestrates the four processing stages that take a media
// item from discovery to rendered clips. Each stage reads items at its
// precondition status, invokes a processor, and persists the resulting status
// and artifact locators so interrupted runs resume where they left off.
package pipeline
