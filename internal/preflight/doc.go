// Package preflight provides readiness checks for the directories and remote
// APIs a dubbing run depends on.
//
// The dub command runs the directory checks before starting so a run does not
// fail after minutes of transcription because the output directory is read
// only. The deps command additionally probes the configured APIs when asked.
package preflight
