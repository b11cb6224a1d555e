// Package ui provides terminal output helpers for saher's one-shot commands:
// an animated spinner for requests in flight and styled tables for devices
// and chart summaries.
//
// The interactive dashboard lives in the dashboard package; this package is
// for line-oriented output that ends when the command exits.
//
// # Color Scheme
//
// Colors are ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - Successful operations
//	ColorError     (red)    - Failures and errors
//	ColorWarning   (yellow) - Warnings and skipped items
//	ColorMuted     (gray)   - Secondary text, timing info
package ui
