// Package translate provides the machine translation backends used by the
// dubbing pipeline and a SQLite cache that sits in front of any of them.
//
// Backends:
//   - Google: Cloud Translation v2, with "auto" mapping to source detection
//   - Chat: any OpenAI-compatible chat completion model
//
// Cached wraps a backend so repeated runs over the same video do not pay for
// the same segments twice.
package translate
