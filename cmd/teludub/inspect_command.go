package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"teludub/internal/config"
	langpkg "teludub/internal/language"
	"teludub/internal/media/ffprobe"
	"teludub/internal/subtitles"
	"teludub/internal/transcript"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var mediaPath string
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Describe a video, an SRT file, or a timed transcript",
		Long: `Inspect reports the streams of a media file, validates an SRT file, or
summarizes a timed transcript written by dub. Pass --media with an SRT file to
also check that cues end within the media duration.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			prober := ffprobe.New(cfg.FFprobeBinary())
			out := cmd.OutOrStdout()
			switch strings.ToLower(filepath.Ext(path)) {
			case ".srt":
				duration := 0.0
				if strings.TrimSpace(mediaPath) != "" {
					duration, err = prober.Duration(cmd.Context(), mediaPath)
					if err != nil {
						return err
					}
				}
				return inspectSubtitles(out, path, duration)
			case ".txt":
				return inspectTranscript(out, path)
			default:
				result, err := prober.Inspect(cmd.Context(), path)
				if err != nil {
					return err
				}
				printProbe(out, path, result)
				return nil
			}
		},
	}
	cmd.Flags().StringVar(&mediaPath, "media", "", "Media file whose duration bounds the SRT cues")
	return cmd
}

func inspectSubtitles(out io.Writer, path string, mediaDuration float64) error {
	cues, err := subtitles.ParseFile(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Subtitles: %s\n", path)
	fmt.Fprintf(out, "Cues:      %d\n", len(cues))
	if len(cues) > 0 {
		fmt.Fprintf(out, "Span:      %s --> %s\n", subtitles.FormatTimestamp(cues[0].Start), subtitles.FormatTimestamp(cues[len(cues)-1].End))
	}
	issues := subtitles.Validate(cues, mediaDuration)
	if len(issues) == 0 {
		fmt.Fprintln(out, "Validation: ok")
		return nil
	}
	fmt.Fprintln(out, "Validation issues:")
	for _, issue := range issues {
		fmt.Fprintf(out, "  - %s\n", issue)
	}
	return errors.New("subtitle validation failed")
}

func inspectTranscript(out io.Writer, path string) error {
	segments, err := transcript.ReadTimedFile(path)
	if err != nil {
		return err
	}
	t := transcript.Transcript{Segments: segments}
	fmt.Fprintf(out, "Transcript: %s\n", path)
	fmt.Fprintf(out, "Segments:   %d\n", len(segments))
	fmt.Fprintf(out, "Ends at:    %.2fs\n", t.End())
	fmt.Fprintf(out, "Characters: %d\n", len([]rune(t.FullText())))
	if err := t.Validate(); err != nil {
		fmt.Fprintf(out, "Validation: %v\n", err)
		return err
	}
	fmt.Fprintln(out, "Validation: ok")
	return nil
}

func printProbe(out io.Writer, path string, result ffprobe.Result) {
	fmt.Fprintf(out, "File:     %s\n", path)
	fmt.Fprintf(out, "Format:   %s\n", result.Format.FormatName)
	fmt.Fprintf(out, "Duration: %s\n", subtitles.FormatTimestamp(result.DurationSeconds()))
	if size := result.SizeBytes(); size > 0 {
		fmt.Fprintf(out, "Size:     %d bytes\n", size)
	}
	fmt.Fprintf(out, "Streams:  %d video, %d audio\n", result.VideoStreamCount(), result.AudioStreamCount())

	rows := make([][]string, 0, len(result.Streams))
	for _, stream := range result.Streams {
		detail := ""
		switch stream.CodecType {
		case "video":
			if stream.Width > 0 {
				detail = fmt.Sprintf("%dx%d", stream.Width, stream.Height)
			}
		case "audio":
			detail = fmt.Sprintf("%s Hz, %d ch", stream.SampleRate, stream.Channels)
		}
		lang := stream.Language()
		if lang != "" {
			lang = fmt.Sprintf("%s (%s)", lang, langpkg.DisplayName(lang))
		}
		rows = append(rows, []string{strconv.Itoa(stream.Index), stream.CodecType, stream.CodecName, lang, detail})
	}
	if len(rows) == 0 {
		return
	}
	fmt.Fprintln(out, renderTable(out,
		[]string{"#", "Type", "Codec", "Language", "Detail"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
	))
}
