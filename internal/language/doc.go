// Package language maps between ISO 639-1 codes, ISO 639-2 codes, English
// names and BCP 47 tags.
//
// A small table covers the languages the dubbing pipeline is configured with
// most often (Telugu and its neighbours among them). Anything else falls back
// to golang.org/x/text/language.
package language
