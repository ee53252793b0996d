package podcasttts

// Podcast synthesis voices. Only voices with the "_v2_saturn_bigtts"
// suffix are accepted by the podcast resource.
const (
	VoiceDayiXiansheng = "zh_male_dayixiansheng_v2_saturn_bigtts"  // 男声-大意先生
	VoiceMizaiTongxue  = "zh_female_mizaitongxue_v2_saturn_bigtts" // 女声-咪仔同学
	VoiceLiufei        = "zh_male_liufei_v2_saturn_bigtts"         // 男声-刘飞
	VoiceXiaolei       = "zh_male_xiaolei_v2_saturn_bigtts"        // 男声-潇磊
)

// SpeakerPreset is a named two-host voice pairing.
type SpeakerPreset struct {
	Name        string
	Description string
	Voices      [2]string
}

var speakerPresets = []SpeakerPreset{
	{
		Name:        "dayi",
		Description: "大意先生 × 咪仔同学（男女对谈）",
		Voices:      [2]string{VoiceDayiXiansheng, VoiceMizaiTongxue},
	},
	{
		Name:        "liufei",
		Description: "刘飞 × 潇磊（双男声对谈）",
		Voices:      [2]string{VoiceLiufei, VoiceXiaolei},
	},
}

// Presets returns the built-in speaker pairings.
func Presets() []SpeakerPreset {
	out := make([]SpeakerPreset, len(speakerPresets))
	copy(out, speakerPresets)
	return out
}

// PresetByName looks up a built-in speaker pairing.
func PresetByName(name string) (SpeakerPreset, bool) {
	for _, p := range speakerPresets {
		if p.Name == name {
			return p, true
		}
	}
	return SpeakerPreset{}, false
}

// DefaultPreset is the pairing used when none is requested.
func DefaultPreset() SpeakerPreset {
	return speakerPresets[0]
}
