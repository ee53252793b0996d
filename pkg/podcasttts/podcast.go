// Podcast Service - Multi-speaker Podcast Synthesis
//
// SAMI Podcast API (WebSocket):
//   - WSS /api/v3/sami/podcasttts
//   - Documentation: https://www.volcengine.com/docs/6561/1668014
//   - Resource ID: volc.service_type.10050
//   - Auth Headers:
//     - X-Api-App-Id: APP ID
//     - X-Api-Access-Key: Access Token
//     - X-Api-Resource-Id: volc.service_type.10050
//     - X-Api-App-Key: aGjiRDfUWi (固定值)
//
// ⚠️ IMPORTANT: SAMI Podcast requires specific speaker voices!
//
//	| Speaker                                    | Description    |
//	|--------------------------------------------|----------------|
//	| zh_male_dayixiansheng_v2_saturn_bigtts     | 男声-大意先生  |
//	| zh_female_mizaitongxue_v2_saturn_bigtts    | 女声-咪仔同学  |
//	| zh_male_liufei_v2_saturn_bigtts            | 男声-刘飞      |
//	| zh_male_xiaolei_v2_saturn_bigtts           | 男声-潇磊      |
//
// Note: SAMI Podcast speakers have "_v2_saturn_bigtts" suffix
package podcasttts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Retry defaults for Generate.
const (
	DefaultRetryBudget = 5
	DefaultBackoff     = time.Second
)

// PodcastService provides podcast synthesis functionality
type PodcastService struct {
	client *Client
}

// newPodcastService creates podcast service
func newPodcastService(c *Client) *PodcastService {
	return &PodcastService{client: c}
}

// PodcastResult is the outcome of a completed Generate run.
type PodcastResult struct {
	// Audio is the concatenated audio of all committed rounds.
	Audio []byte

	// Rounds is the number of committed rounds, music rounds included.
	Rounds int

	// Elapsed is the wall-clock duration of the run, retries included.
	Elapsed time.Duration

	// AudioURL is the server-hosted copy of the audio, when provided.
	AudioURL string

	// InputMetrics describes how the server processed the input.
	InputMetrics *InputMetrics

	// Usage carries token accounting, when the server reports it.
	Usage *Usage
}

// InputMetrics describes server-side input processing.
type InputMetrics struct {
	OriginInputTextLength int  `json:"origin_input_text_length"`
	InputTextLength       int  `json:"input_text_length"`
	InputTextTruncated    bool `json:"input_text_truncated"`
}

// Usage carries token accounting for a run.
type Usage struct {
	InputTextTokens   int64 `json:"input_text_tokens"`
	OutputAudioTokens int64 `json:"output_audio_tokens"`
}

// GenerateOption configures a Generate run.
type GenerateOption func(*generateConfig)

type generateConfig struct {
	retryBudget int
	backoff     time.Duration
	progress    ProgressFunc
}

func (c *generateConfig) emit(ev ProgressEvent) {
	if c.progress != nil {
		c.progress(ev)
	}
}

// WithRetryBudget sets the total number of connection attempts (default 5).
func WithRetryBudget(n int) GenerateOption {
	return func(c *generateConfig) {
		if n > 0 {
			c.retryBudget = n
		}
	}
}

// WithBackoff sets the pause before each resumed attempt (default 1s).
func WithBackoff(d time.Duration) GenerateOption {
	return func(c *generateConfig) {
		c.backoff = d
	}
}

// WithProgress installs a progress callback. The callback runs on the
// session goroutine and must not block.
func WithProgress(fn ProgressFunc) GenerateOption {
	return func(c *generateConfig) {
		c.progress = fn
	}
}

// Generate runs podcast synthesis to completion, resuming over new
// connections when a round fails or the transport drops.
//
// Rounds the server finished successfully are never re-requested: resumed
// attempts send retry_info with the task id and the last committed round,
// and the server continues from there. Audio of an interrupted round is
// discarded, so each round appears exactly once in the result.
//
// Protocol errors (error frames, ConnectionFailed, SessionFailed) are not
// retried; they surface as *Error. When the retry budget runs out the
// returned error wraps ErrRetryExhausted and the last attempt's error.
//
// Example:
//
//	result, err := client.Podcast.Generate(ctx, &podcasttts.PodcastRequest{
//	    Action: podcasttts.ActionDialogue,
//	    NlpTexts: []podcasttts.Dialogue{
//	        {Speaker: podcasttts.VoiceLiufei, Text: "大家好，欢迎收听。"},
//	        {Speaker: podcasttts.VoiceXiaolei, Text: "今天聊点有趣的。"},
//	    },
//	    SpeakerInfo: &podcasttts.SpeakerInfo{
//	        Speakers: []string{podcasttts.VoiceLiufei, podcasttts.VoiceXiaolei},
//	    },
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("podcast.mp3", result.Audio, 0o644)
func (s *PodcastService) Generate(ctx context.Context, req *PodcastRequest, opts ...GenerateOption) (*PodcastResult, error) {
	cfg := &generateConfig{
		retryBudget: DefaultRetryBudget,
		backoff:     DefaultBackoff,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if s.client.config.appID == "" || s.client.config.accessKey == "" {
		return nil, ErrMissingCredentials
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	log := s.client.config.logger.With().Str("input_id", req.InputID).Logger()
	sc := &sessionContext{lastRoundID: -1, currentRound: -1}
	acc := newAudioAccumulator()
	result := &PodcastResult{}
	start := time.Now()

	var lastErr error
	for attemptNo := 1; attemptNo <= cfg.retryBudget; attemptNo++ {
		if attemptNo > 1 {
			cfg.emit(ProgressEvent{
				Kind:       ProgressResuming,
				RoundID:    sc.lastRoundID,
				Attempt:    attemptNo,
				TotalBytes: acc.total(),
				Message:    lastErr.Error(),
			})
			select {
			case <-time.After(cfg.backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		err := s.runAttempt(ctx, req, sc, acc, cfg, result, attemptNo, log)
		if err == nil {
			if len(acc.bytes()) == 0 {
				return nil, ErrNoAudio
			}
			result.Audio = acc.bytes()
			result.Rounds = acc.rounds
			result.Elapsed = time.Since(start)
			return result, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if isFatal(err) {
			return nil, err
		}

		log.Warn().Err(err).
			Int("attempt", attemptNo).
			Int("last_round", sc.lastRoundID).
			Msg("attempt interrupted, will resume")
		lastErr = err
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", ErrRetryExhausted, cfg.retryBudget, lastErr)
}

// runAttempt drives one connection through the full session lifecycle.
func (s *PodcastService) runAttempt(ctx context.Context, req *PodcastRequest, sc *sessionContext, acc *audioAccumulator, cfg *generateConfig, result *PodcastResult, attemptNo int, log zerolog.Logger) error {
	a := newAttempt(s.client, attemptNo, log)
	defer a.close()

	// A resumed attempt starts with a clean round: whatever the dropped
	// connection left uncommitted is replayed by the server.
	acc.discardRound()

	if err := a.dial(ctx); err != nil {
		return err
	}
	if err := a.startConnection(); err != nil {
		return err
	}
	if err := a.startSession(req, sc); err != nil {
		return err
	}
	if err := a.finishSession(); err != nil {
		return err
	}
	if err := a.streamRounds(sc, acc, cfg, result); err != nil {
		return err
	}
	a.finishConnection()
	return nil
}

// isFatal reports whether err cannot be recovered by a resumed attempt.
// Protocol-level errors and cancellation are fatal; transport drops and
// per-round failures are not.
func isFatal(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pe *Error
	return errors.As(err, &pe)
}
