// Package config loads, normalizes, and validates teludub configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OPENAI_API_KEY and GOOGLE_TRANSLATE_API_KEY. The Config type centralizes every
// knob the dubbing pipeline and CLI need so stage switches, collaborator
// backends, and output locations are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical backend names, and clear validation errors.
package config
