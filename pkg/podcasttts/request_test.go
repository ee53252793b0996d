package podcasttts

import "testing"

func TestPodcastRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     PodcastRequest
		wantErr bool
	}{
		{
			name: "dialogue",
			req: PodcastRequest{
				Action:   ActionDialogue,
				NlpTexts: []Dialogue{{Speaker: VoiceLiufei, Text: "你好"}},
			},
		},
		{
			name:    "dialogue without lines",
			req:     PodcastRequest{Action: ActionDialogue},
			wantErr: true,
		},
		{
			name: "dialogue line missing speaker",
			req: PodcastRequest{
				Action:   ActionDialogue,
				NlpTexts: []Dialogue{{Text: "你好"}},
			},
			wantErr: true,
		},
		{
			name: "topic",
			req:  PodcastRequest{Action: ActionTopic, PromptText: "聊聊天气"},
		},
		{
			name:    "topic without prompt",
			req:     PodcastRequest{Action: ActionTopic},
			wantErr: true,
		},
		{
			name: "summary from text",
			req:  PodcastRequest{Action: ActionSummary, InputText: "一篇长文"},
		},
		{
			name: "summary from url",
			req: PodcastRequest{
				Action:    ActionSummary,
				InputInfo: &InputInfo{InputURL: "https://example.com/post"},
			},
		},
		{
			name:    "summary without source",
			req:     PodcastRequest{Action: ActionSummary},
			wantErr: true,
		},
		{
			name: "summary with both sources",
			req: PodcastRequest{
				Action:    ActionSummary,
				InputText: "一篇长文",
				InputInfo: &InputInfo{InputURL: "https://example.com/post"},
			},
			wantErr: true,
		},
		{
			name:    "unsupported action",
			req:     PodcastRequest{Action: 7},
			wantErr: true,
		},
		{
			name: "wrong speaker count",
			req: PodcastRequest{
				Action:      ActionTopic,
				PromptText:  "话题",
				SpeakerInfo: &SpeakerInfo{Speakers: []string{VoiceLiufei}},
			},
			wantErr: true,
		},
		{
			name: "two speakers",
			req: PodcastRequest{
				Action:     ActionTopic,
				PromptText: "话题",
				SpeakerInfo: &SpeakerInfo{
					Speakers: []string{VoiceLiufei, VoiceXiaolei},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPresetByName(t *testing.T) {
	for _, name := range []string{"dayi", "liufei"} {
		p, ok := PresetByName(name)
		if !ok {
			t.Errorf("PresetByName(%q) not found", name)
			continue
		}
		if p.Voices[0] == "" || p.Voices[1] == "" {
			t.Errorf("preset %q has empty voice: %+v", name, p)
		}
	}
	if _, ok := PresetByName("nope"); ok {
		t.Error("PresetByName(nope) found")
	}
}
