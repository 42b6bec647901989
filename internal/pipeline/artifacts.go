package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Artifacts names the files a run produces. Every name starts with the video
// basename and carries the language code of its content.
type Artifacts struct {
	OutputDir string
	WorkDir   string
	Base      string
	Target    string
	Container string
}

func newArtifacts(cfg Config) Artifacts {
	base := filepath.Base(cfg.Video)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return Artifacts{
		OutputDir: cfg.outputDir(),
		WorkDir:   filepath.Join(cfg.WorkDir, base),
		Base:      base,
		Target:    cfg.TargetLanguage,
		Container: cfg.container(),
	}
}

func (a Artifacts) output(suffix string) string {
	return filepath.Join(a.OutputDir, a.Base+"."+suffix)
}

// ExtractedAudio is the speech WAV handed to the transcriber.
func (a Artifacts) ExtractedAudio() string {
	return filepath.Join(a.WorkDir, a.Base+".wav")
}

// SourceTranscript is the timed transcript in the spoken language.
func (a Artifacts) SourceTranscript(language string) string {
	if strings.TrimSpace(language) == "" {
		language = "src"
	}
	return a.output(language + ".txt")
}

// TargetTranscript is the timed transcript in the target language.
func (a Artifacts) TargetTranscript() string {
	return a.output(a.Target + ".txt")
}

// FullText is the translated text as one document.
func (a Artifacts) FullText() string {
	return a.output(a.Target + ".full.txt")
}

// Subtitles is the target-language SRT.
func (a Artifacts) Subtitles() string {
	return a.output(a.Target + ".srt")
}

// ChunkAudio holds the synthesized speech for one text chunk.
func (a Artifacts) ChunkAudio(sequence int) string {
	return filepath.Join(a.WorkDir, fmt.Sprintf("%s.%s.chunk-%04d.wav", a.Base, a.Target, sequence))
}

// AssembledAudio is where chunk audio is concatenated before it is moved
// to DubAudio.
func (a Artifacts) AssembledAudio() string {
	return filepath.Join(a.WorkDir, a.Base+"."+a.Target+".dub.wav")
}

// DubAudio is the concatenated synthesized speech.
func (a Artifacts) DubAudio() string {
	return a.output(a.Target + ".wav")
}

// DubbedVideo is the remuxed final video.
func (a Artifacts) DubbedVideo() string {
	return a.output(a.Target + "." + a.Container)
}
