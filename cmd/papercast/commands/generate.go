package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/papercast/papercast/pkg/cli"
	"github.com/papercast/papercast/pkg/podcasttts"
	"github.com/papercast/papercast/pkg/podscript"
	"github.com/papercast/papercast/pkg/storage"
)

var (
	genScript      string
	genText        string
	genTopic       string
	genURL         string
	genSpeakers    string
	genRandomOrder bool
	genFormat      string
	genSampleRate  int
	genSpeechRate  int
	genNoHeadMusic bool
	genTailMusic   bool
	genRetries     int
	genTimeout     time.Duration
	genUpload      bool
	genInputID     string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Synthesize a podcast",
	Long: `Synthesize a multi-speaker podcast.

Exactly one input mode is required:
  --script  dialogue script file ("-" for stdin), one line per turn:
              A: 大家好，欢迎收听今天的节目。
              B: 是的，今天我们要聊的话题非常有趣。
            Markers like 【主持人】 or **小王** also work; the first two
            distinct speakers are mapped to the two voices.
  --text    source material to summarize into a dialogue
  --url     source URL to summarize into a dialogue
  --topic   topic to generate a dialogue about
  -f        full request file (YAML or JSON), sent as-is

Synthesis resumes automatically when the connection drops: rounds the
server already finished are never re-requested.

Examples:
  papercast generate --script episode.txt -o episode.mp3
  papercast generate --topic "AI 会取代程序员吗" --speakers liufei -o ai.mp3
  papercast generate --url https://example.com/post -o post.mp3 --upload
  cat script.txt | papercast generate --script - -o out.mp3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputPath := getOutputFile()
		if outputPath == "" {
			return fmt.Errorf("output file is required, use -o flag")
		}

		cliCtx, err := getContext()
		if err != nil && !hasEnvCredentials() {
			return err
		}

		req, dropped, err := resolveRequest(cliCtx)
		if err != nil {
			return err
		}
		if dropped > 0 {
			cli.PrintWarning("Script over %d characters, trimmed %d from the end", podscript.ScriptCharLimit, dropped)
		}

		client, err := createClient(cliCtx)
		if err != nil {
			return err
		}

		printVerbose("Action: %d", req.Action)
		if req.SpeakerInfo != nil {
			printVerbose("Speakers: %v", req.SpeakerInfo.Speakers)
		}
		printVerbose("Dialogue lines: %d", len(req.NlpTexts))

		reqCtx, cancel := context.WithTimeout(context.Background(), genTimeout)
		defer cancel()

		printer := &progressPrinter{start: time.Now()}
		result, err := client.Podcast.Generate(reqCtx, req,
			podcasttts.WithRetryBudget(genRetries),
			podcasttts.WithProgress(printer.handle),
		)
		if err != nil {
			return fmt.Errorf("podcast synthesis failed: %w", err)
		}

		if err := cli.OutputBytes(result.Audio, outputPath); err != nil {
			return fmt.Errorf("failed to write audio file: %w", err)
		}
		cli.PrintSuccess("Audio saved to: %s (%s, %d rounds, %s)",
			outputPath, cli.FormatBytesInt(len(result.Audio)), result.Rounds, cli.FormatDuration(result.Elapsed))
		if result.AudioURL != "" {
			cli.PrintLabel("Server copy", "%s", result.AudioURL)
		}
		if result.Usage != nil {
			printVerbose("Usage: %d input tokens, %d audio tokens", result.Usage.InputTextTokens, result.Usage.OutputAudioTokens)
		}
		if result.InputMetrics != nil && result.InputMetrics.InputTextTruncated {
			cli.PrintWarning("Server truncated input text: %d -> %d characters",
				result.InputMetrics.OriginInputTextLength, result.InputMetrics.InputTextLength)
		}

		summary := map[string]any{
			"output_file": outputPath,
			"audio_size":  len(result.Audio),
			"rounds":      result.Rounds,
			"elapsed_s":   result.Elapsed.Seconds(),
		}
		if result.AudioURL != "" {
			summary["audio_url"] = result.AudioURL
		}

		if genUpload {
			url, err := uploadArtifact(reqCtx, cliCtx, outputPath, result.Audio)
			if err != nil {
				return err
			}
			cli.PrintSuccess("Uploaded: %s", url)
			summary["upload_url"] = url
		}

		if isJSONOutput() {
			return outputResult(summary, "", true)
		}
		return nil
	},
}

// resolveRequest builds the synthesis request from whichever input mode
// was given.
func resolveRequest(cliCtx *cli.Context) (*podcasttts.PodcastRequest, int, error) {
	modes := 0
	for _, v := range []string{genScript, genText, genTopic, genURL, getInputFile()} {
		if v != "" {
			modes++
		}
	}
	if modes == 0 {
		return nil, 0, fmt.Errorf("one of --script, --text, --topic, --url or -f is required")
	}
	if modes > 1 {
		return nil, 0, fmt.Errorf("--script, --text, --topic, --url and -f are mutually exclusive")
	}

	// Full request file bypasses script processing entirely.
	if path := getInputFile(); path != "" {
		var req podcasttts.PodcastRequest
		if err := cli.LoadRequest(path, &req); err != nil {
			return nil, 0, err
		}
		return &req, 0, nil
	}

	voices, err := resolveSpeakers(genSpeakers, cliCtx)
	if err != nil {
		return nil, 0, err
	}

	in := generateInput{
		text:        genText,
		topic:       genTopic,
		url:         genURL,
		voices:      voices,
		randomOrder: genRandomOrder,
		format:      genFormat,
		sampleRate:  genSampleRate,
		speechRate:  genSpeechRate,
		headMusic:   !genNoHeadMusic,
		tailMusic:   genTailMusic,
		inputID:     genInputID,
	}
	if genScript != "" {
		script, err := readScript(genScript)
		if err != nil {
			return nil, 0, err
		}
		in.script = script
	}

	return buildGenerateRequest(in)
}

// generateInput collects everything buildGenerateRequest needs, so the
// request assembly stays testable without cobra.
type generateInput struct {
	script      string
	text        string
	topic       string
	url         string
	voices      [2]string
	randomOrder bool
	format      string
	sampleRate  int
	speechRate  int
	headMusic   bool
	tailMusic   bool
	inputID     string
}

// buildGenerateRequest assembles a PodcastRequest. For script input it
// returns the number of characters trimmed to fit the service limit.
func buildGenerateRequest(in generateInput) (*podcasttts.PodcastRequest, int, error) {
	if in.inputID == "" {
		in.inputID = uuid.NewString()
	}
	req := &podcasttts.PodcastRequest{
		InputID:      in.inputID,
		UseHeadMusic: in.headMusic,
		UseTailMusic: in.tailMusic,
		AudioConfig: &podcasttts.AudioConfig{
			Format:     in.format,
			SampleRate: in.sampleRate,
			SpeechRate: in.speechRate,
		},
		SpeakerInfo: &podcasttts.SpeakerInfo{
			RandomOrder: in.randomOrder,
			Speakers:    []string{in.voices[0], in.voices[1]},
		},
	}

	dropped := 0
	switch {
	case in.script != "":
		turns, err := podscript.Parse(in.script, in.voices[0], in.voices[1])
		if err != nil {
			return nil, 0, err
		}
		lines := podscript.Segment(turns)
		lines, dropped = podscript.Trim(lines, podscript.ScriptCharLimit, podscript.ScriptTrimTarget)

		req.Action = podcasttts.ActionDialogue
		req.NlpTexts = make([]podcasttts.Dialogue, len(lines))
		for i, l := range lines {
			req.NlpTexts[i] = podcasttts.Dialogue{Speaker: l.Voice, Text: l.Text}
		}
	case in.text != "":
		if n := len([]rune(in.text)); n > podcasttts.MaxInputTextChars {
			return nil, 0, fmt.Errorf("input text is %d characters, the service accepts at most %d", n, podcasttts.MaxInputTextChars)
		}
		req.Action = podcasttts.ActionSummary
		req.InputText = in.text
		req.InputInfo = &podcasttts.InputInfo{InputTextMaxLength: podcasttts.DefaultInputTextMaxLength}
	case in.url != "":
		req.Action = podcasttts.ActionSummary
		req.InputInfo = &podcasttts.InputInfo{
			InputURL:           in.url,
			InputTextMaxLength: podcasttts.DefaultInputTextMaxLength,
		}
	case in.topic != "":
		req.Action = podcasttts.ActionTopic
		req.PromptText = in.topic
	default:
		return nil, 0, fmt.Errorf("no input given")
	}

	return req, dropped, nil
}

// resolveSpeakers turns a preset name or a "voice1,voice2" pair into two
// voices. An empty name falls back to the context default, then to the
// built-in default preset.
func resolveSpeakers(name string, cliCtx *cli.Context) ([2]string, error) {
	if name == "" && cliCtx != nil {
		name = cliCtx.DefaultSpeakers
	}
	if name == "" {
		return podcasttts.DefaultPreset().Voices, nil
	}
	if strings.Contains(name, ",") {
		parts := strings.SplitN(name, ",", 2)
		v0 := strings.TrimSpace(parts[0])
		v1 := strings.TrimSpace(parts[1])
		if v0 == "" || v1 == "" {
			return [2]string{}, fmt.Errorf("--speakers needs two voices, got %q", name)
		}
		return [2]string{v0, v1}, nil
	}
	preset, ok := podcasttts.PresetByName(name)
	if !ok {
		return [2]string{}, fmt.Errorf("unknown speaker preset %q, see 'papercast speakers'", name)
	}
	return preset.Voices, nil
}

// readScript reads the dialogue script from a file or stdin ("-").
func readScript(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read script: %w", err)
	}
	return string(data), nil
}

// progressMark is the audio interval between non-verbose progress lines.
const progressMark = 200 * 1024

// progressPrinter renders synthesis progress. Non-verbose output stays
// coarse: round boundaries and every 200 KiB of audio.
type progressPrinter struct {
	start    time.Time
	lastMark int
}

func (p *progressPrinter) handle(ev podcasttts.ProgressEvent) {
	elapsed := time.Since(p.start).Seconds()
	switch ev.Kind {
	case podcasttts.ProgressRoundStarted:
		switch ev.RoundID {
		case podcasttts.MusicRoundHead:
			printVerbose("[%.1fs] lead-in music", elapsed)
		case podcasttts.MusicRoundTail:
			printVerbose("[%.1fs] lead-out music", elapsed)
		default:
			cli.PrintInfo("[%.1fs] Round %d...", elapsed, ev.RoundID)
			if ev.Text != "" {
				printVerbose("  %s: %s", ev.Speaker, ev.Text)
			}
		}
	case podcasttts.ProgressAudio:
		printVerbose("[%.1fs] +%d bytes (total %s)", elapsed, ev.ChunkBytes, cli.FormatBytesInt(ev.TotalBytes))
		if !isVerbose() && ev.TotalBytes/progressMark > p.lastMark {
			p.lastMark = ev.TotalBytes / progressMark
			cli.PrintDim("[%.1fs] %s received", elapsed, cli.FormatBytesInt(ev.TotalBytes))
		}
	case podcasttts.ProgressRoundFinished:
		printVerbose("[%.1fs] round %d done", elapsed, ev.RoundID)
	case podcasttts.ProgressRoundFailed:
		cli.PrintWarning("[%.1fs] Round %d failed: %s", elapsed, ev.RoundID, ev.Message)
	case podcasttts.ProgressResuming:
		cli.PrintWarning("[%.1fs] Connection lost (%s), resuming after round %d (attempt %d)",
			elapsed, ev.Message, ev.RoundID, ev.Attempt)
	case podcasttts.ProgressUsage:
		printVerbose("[%.1fs] usage report received", elapsed)
	case podcasttts.ProgressFinished:
		cli.PrintInfo("[%.1fs] Synthesis complete", elapsed)
	}
}

// uploadArtifact pushes the finished audio to the context's object storage.
func uploadArtifact(ctx context.Context, cliCtx *cli.Context, outputPath string, audio []byte) (string, error) {
	if cliCtx == nil || cliCtx.Storage == nil {
		return "", fmt.Errorf("--upload requires storage credentials, run: papercast config add-context ... --storage-endpoint ...")
	}
	st := cliCtx.Storage

	up, err := storage.NewUploader(st.Endpoint, st.AccessKey, st.SecretKey, st.Bucket, storage.Options{
		UseSSL: st.UseSSL,
		Logger: newLogger(),
	})
	if err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("%s-%s", time.Now().Format("20060102-150405"), filepath.Base(outputPath))
	return up.Upload(ctx, objectName, audio, contentTypeFor(outputPath))
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return "audio/mpeg"
	case ".ogg":
		return "audio/ogg"
	case ".aac":
		return "audio/aac"
	default:
		return "application/octet-stream"
	}
}

// newLogger returns a console logger, silenced unless verbose.
func newLogger() zerolog.Logger {
	if !isVerbose() {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.DebugLevel).
		With().Timestamp().Logger()
}

func init() {
	generateCmd.Flags().StringVar(&genScript, "script", "", "dialogue script file, '-' for stdin")
	generateCmd.Flags().StringVar(&genText, "text", "", "source material to summarize")
	generateCmd.Flags().StringVar(&genTopic, "topic", "", "topic to generate a dialogue about")
	generateCmd.Flags().StringVar(&genURL, "url", "", "source URL to summarize")
	generateCmd.Flags().StringVar(&genSpeakers, "speakers", "", "speaker preset name or 'voice1,voice2' pair")
	generateCmd.Flags().BoolVar(&genRandomOrder, "random-order", false, "let the server pick speaking order")
	generateCmd.Flags().StringVar(&genFormat, "format", "mp3", "audio format: mp3, ogg_opus, pcm, aac")
	generateCmd.Flags().IntVar(&genSampleRate, "sample-rate", 24000, "sample rate: 16000, 24000, 48000")
	generateCmd.Flags().IntVar(&genSpeechRate, "speech-rate", 0, "speech rate, -50 to 100")
	generateCmd.Flags().BoolVar(&genNoHeadMusic, "no-head-music", false, "skip the lead-in music")
	generateCmd.Flags().BoolVar(&genTailMusic, "tail-music", false, "append lead-out music")
	generateCmd.Flags().IntVar(&genRetries, "retries", podcasttts.DefaultRetryBudget, "total connection attempts")
	generateCmd.Flags().DurationVar(&genTimeout, "timeout", 30*time.Minute, "overall synthesis timeout")
	generateCmd.Flags().BoolVar(&genUpload, "upload", false, "upload the result to the context's object storage")
	generateCmd.Flags().StringVar(&genInputID, "input-id", "", "request tracking id")
}
