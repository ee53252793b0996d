package commands

import (
	"strings"
	"testing"

	"github.com/papercast/papercast/pkg/cli"
	"github.com/papercast/papercast/pkg/podcasttts"
)

var testVoices = [2]string{podcasttts.VoiceDayiXiansheng, podcasttts.VoiceMizaiTongxue}

func TestBuildGenerateRequest_Script(t *testing.T) {
	req, dropped, err := buildGenerateRequest(generateInput{
		script: "A: 大家好，欢迎收听。\nB: 今天聊点有趣的。",
		voices: testVoices,
		format: "mp3",
	})
	if err != nil {
		t.Fatalf("buildGenerateRequest error: %v", err)
	}
	if dropped != 0 {
		t.Errorf("dropped = %d, want 0", dropped)
	}
	if req.Action != podcasttts.ActionDialogue {
		t.Errorf("Action = %d, want %d", req.Action, podcasttts.ActionDialogue)
	}
	if len(req.NlpTexts) != 2 {
		t.Fatalf("len(NlpTexts) = %d, want 2", len(req.NlpTexts))
	}
	if req.NlpTexts[0].Speaker != testVoices[0] {
		t.Errorf("NlpTexts[0].Speaker = %q, want %q", req.NlpTexts[0].Speaker, testVoices[0])
	}
	if req.NlpTexts[1].Speaker != testVoices[1] {
		t.Errorf("NlpTexts[1].Speaker = %q, want %q", req.NlpTexts[1].Speaker, testVoices[1])
	}
	if err := req.Validate(); err != nil {
		t.Errorf("Validate error: %v", err)
	}
}

func TestBuildGenerateRequest_ScriptTrimmed(t *testing.T) {
	var sb strings.Builder
	line := strings.Repeat("好", 200) + "。"
	for i := 0; i < 60; i++ {
		if i%2 == 0 {
			sb.WriteString("A: ")
		} else {
			sb.WriteString("B: ")
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	req, dropped, err := buildGenerateRequest(generateInput{
		script: sb.String(),
		voices: testVoices,
	})
	if err != nil {
		t.Fatalf("buildGenerateRequest error: %v", err)
	}
	if dropped == 0 {
		t.Error("expected trimming for oversize script")
	}
	total := 0
	for _, d := range req.NlpTexts {
		total += len([]rune(d.Text))
	}
	if total > 9800 {
		t.Errorf("kept dialogue %d runes, want <= 9800", total)
	}
}

func TestBuildGenerateRequest_ScriptNoSpeakers(t *testing.T) {
	_, _, err := buildGenerateRequest(generateInput{
		script: "没有任何说话人标记的文本。",
		voices: testVoices,
	})
	if err == nil {
		t.Error("expected error for script without speaker markers")
	}
}

func TestBuildGenerateRequest_Text(t *testing.T) {
	req, _, err := buildGenerateRequest(generateInput{
		text:   "量子计算机利用量子比特的叠加态进行并行计算。",
		voices: testVoices,
	})
	if err != nil {
		t.Fatalf("buildGenerateRequest error: %v", err)
	}
	if req.Action != podcasttts.ActionSummary {
		t.Errorf("Action = %d, want %d", req.Action, podcasttts.ActionSummary)
	}
	if req.InputText == "" {
		t.Error("InputText should be set")
	}
	if req.InputInfo == nil || req.InputInfo.InputTextMaxLength != podcasttts.DefaultInputTextMaxLength {
		t.Errorf("InputInfo = %+v", req.InputInfo)
	}
	if err := req.Validate(); err != nil {
		t.Errorf("Validate error: %v", err)
	}
}

func TestBuildGenerateRequest_URL(t *testing.T) {
	req, _, err := buildGenerateRequest(generateInput{
		url:    "https://example.com/article",
		voices: testVoices,
	})
	if err != nil {
		t.Fatalf("buildGenerateRequest error: %v", err)
	}
	if req.Action != podcasttts.ActionSummary {
		t.Errorf("Action = %d, want %d", req.Action, podcasttts.ActionSummary)
	}
	if req.InputText != "" {
		t.Error("InputText should be empty for URL input")
	}
	if req.InputInfo == nil || req.InputInfo.InputURL != "https://example.com/article" {
		t.Errorf("InputInfo = %+v", req.InputInfo)
	}
	if err := req.Validate(); err != nil {
		t.Errorf("Validate error: %v", err)
	}
}

func TestBuildGenerateRequest_Topic(t *testing.T) {
	req, _, err := buildGenerateRequest(generateInput{
		topic:      "AI 会取代程序员吗",
		voices:     testVoices,
		headMusic:  true,
		tailMusic:  true,
		sampleRate: 24000,
	})
	if err != nil {
		t.Fatalf("buildGenerateRequest error: %v", err)
	}
	if req.Action != podcasttts.ActionTopic {
		t.Errorf("Action = %d, want %d", req.Action, podcasttts.ActionTopic)
	}
	if req.PromptText == "" {
		t.Error("PromptText should be set")
	}
	if !req.UseHeadMusic || !req.UseTailMusic {
		t.Error("music flags should carry through")
	}
	if req.AudioConfig == nil || req.AudioConfig.SampleRate != 24000 {
		t.Errorf("AudioConfig = %+v", req.AudioConfig)
	}
	if err := req.Validate(); err != nil {
		t.Errorf("Validate error: %v", err)
	}
}

func TestResolveSpeakers(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		ctx     *cli.Context
		want    [2]string
		wantErr bool
	}{
		{
			name: "default preset",
			arg:  "",
			want: podcasttts.DefaultPreset().Voices,
		},
		{
			name: "preset by name",
			arg:  "liufei",
			want: [2]string{podcasttts.VoiceLiufei, podcasttts.VoiceXiaolei},
		},
		{
			name: "context default",
			arg:  "",
			ctx:  &cli.Context{DefaultSpeakers: "liufei"},
			want: [2]string{podcasttts.VoiceLiufei, podcasttts.VoiceXiaolei},
		},
		{
			name: "explicit voice pair",
			arg:  podcasttts.VoiceLiufei + ", " + podcasttts.VoiceMizaiTongxue,
			want: [2]string{podcasttts.VoiceLiufei, podcasttts.VoiceMizaiTongxue},
		},
		{
			name:    "unknown preset",
			arg:     "nonexistent",
			wantErr: true,
		},
		{
			name:    "half a pair",
			arg:     "only_one_voice,",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveSpeakers(tt.arg, tt.ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveSpeakers() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("resolveSpeakers() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContentTypeFor(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"out.mp3", "audio/mpeg"},
		{"out.MP3", "audio/mpeg"},
		{"out.ogg", "audio/ogg"},
		{"out.aac", "audio/aac"},
		{"out.pcm", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := contentTypeFor(tt.path); got != tt.want {
			t.Errorf("contentTypeFor(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
