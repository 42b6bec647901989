// Command teludub dubs a video into another language.
//
// The dub command extracts the speech track, transcribes it, translates the
// transcript, writes timed transcripts and an SRT file, synthesizes the
// translated text and remuxes the result with the original video. Supporting
// commands inspect artifacts, check external dependencies, and manage the
// configuration file and translation cache.
package main
