package podcasttts

import "fmt"

// Action types for PodcastRequest
const (
	// ActionSummary generates a dialogue from source material
	// (input_text or input_info.input_url) before synthesizing it.
	ActionSummary = 0

	// ActionDialogue synthesizes a ready-made dialogue (nlp_texts).
	ActionDialogue = 3

	// ActionTopic generates and synthesizes a dialogue about a topic
	// (prompt_text).
	ActionTopic = 4
)

// Audio output limits and defaults
const (
	// MaxInputTextChars is the longest input_text accepted for
	// ActionSummary requests.
	MaxInputTextChars = 32000

	// DefaultInputTextMaxLength caps the generated dialogue length for
	// ActionSummary requests.
	DefaultInputTextMaxLength = 12000
)

// PodcastRequest represents a podcast synthesis request
type PodcastRequest struct {
	// InputID for tracking
	InputID string `json:"input_id,omitempty"`

	// Action type:
	//   0: generate dialogue from source material (input_text / input_url)
	//   3: synthesize a ready-made dialogue (nlp_texts)
	//   4: generate dialogue from a topic (prompt_text)
	Action int `json:"action"`

	// Source material for ActionSummary
	InputText string `json:"input_text,omitempty"`

	// Dialogue lines for ActionDialogue
	NlpTexts []Dialogue `json:"nlp_texts,omitempty"`

	// Topic for ActionTopic
	PromptText string `json:"prompt_text,omitempty"`

	// Source URL and generation limits for ActionSummary
	InputInfo *InputInfo `json:"input_info,omitempty"`

	// Use head/tail music
	UseHeadMusic bool `json:"use_head_music,omitempty"`
	UseTailMusic bool `json:"use_tail_music,omitempty"`

	// Audio configuration
	AudioConfig *AudioConfig `json:"audio_config,omitempty"`

	// Speaker configuration (exactly 2 speakers required)
	SpeakerInfo *SpeakerInfo `json:"speaker_info,omitempty"`

	// RetryInfo resumes an interrupted run. Set by Generate on resumed
	// attempts; callers leave it nil.
	RetryInfo *RetryInfo `json:"retry_info,omitempty"`
}

// Dialogue represents a single dialogue line
type Dialogue struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// InputInfo carries source material options for ActionSummary
type InputInfo struct {
	InputURL           string `json:"input_url,omitempty"`
	InputTextMaxLength int    `json:"input_text_max_length,omitempty"`
}

// AudioConfig represents audio output configuration
type AudioConfig struct {
	Format     string `json:"format,omitempty"`      // mp3, ogg_opus, pcm, aac
	SampleRate int    `json:"sample_rate,omitempty"` // 16000, 24000, 48000
	SpeechRate int    `json:"speech_rate,omitempty"` // -50 ~ 100
}

// SpeakerInfo represents speaker configuration
type SpeakerInfo struct {
	RandomOrder bool     `json:"random_order,omitempty"`
	Speakers    []string `json:"speakers,omitempty"` // exactly 2 voices
}

// RetryInfo resumes a previous run from its last finished round
type RetryInfo struct {
	RetryTaskID         string `json:"retry_task_id"`
	LastFinishedRoundID int    `json:"last_finished_round_id"`
}

// Validate checks the request before opening a connection.
func (r *PodcastRequest) Validate() error {
	switch r.Action {
	case ActionSummary:
		hasText := r.InputText != ""
		hasURL := r.InputInfo != nil && r.InputInfo.InputURL != ""
		if !hasText && !hasURL {
			return fmt.Errorf("podcasttts: action %d requires input_text or input_info.input_url", r.Action)
		}
		if hasText && hasURL {
			return fmt.Errorf("podcasttts: input_text and input_info.input_url are mutually exclusive")
		}
	case ActionDialogue:
		if len(r.NlpTexts) == 0 {
			return fmt.Errorf("podcasttts: action %d requires nlp_texts", r.Action)
		}
		for i, d := range r.NlpTexts {
			if d.Speaker == "" || d.Text == "" {
				return fmt.Errorf("podcasttts: nlp_texts[%d] missing speaker or text", i)
			}
		}
	case ActionTopic:
		if r.PromptText == "" {
			return fmt.Errorf("podcasttts: action %d requires prompt_text", r.Action)
		}
	default:
		return fmt.Errorf("podcasttts: unsupported action %d", r.Action)
	}

	if r.SpeakerInfo != nil && len(r.SpeakerInfo.Speakers) != 0 && len(r.SpeakerInfo.Speakers) != 2 {
		return fmt.Errorf("podcasttts: speaker_info requires exactly 2 speakers, got %d", len(r.SpeakerInfo.Speakers))
	}
	return nil
}
