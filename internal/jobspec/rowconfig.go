package jobspec

import (
	"encoding/json"
	"strings"
)

// Utterance is one timestamped script entry supplied through the sheet's
// script column.
type Utterance struct {
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	Text      string  `json:"text"`
	SpeakerID string  `json:"speaker_id,omitempty"`
	Gender    string  `json:"ssml_gender,omitempty"`
}

// RowConfig is one spreadsheet data row's merged settings describing a single
// dubbing job, parsed into its natural types at load time. The JSON field
// names mirror the sheet column names so the wire payload stays readable next
// to the spreadsheet.
type RowConfig struct {
	CampaignName               string                     `json:"campaign_name"`
	CustomTag                  string                     `json:"custom_tag"`
	OriginalLanguage           string                     `json:"original_language"`
	TargetLanguages            []string                   `json:"target_language"`
	VideoURL                   string                     `json:"video_url"`
	Script                     []Utterance                `json:"script"`
	TargetGender               string                     `json:"target_gender"`
	VoiceProvider              string                     `json:"voice_provider"`
	CloneOriginalVoices        bool                       `json:"clone_original_voices"`
	PreferredVoiceFamily       []string                   `json:"preferred_voice_family"`
	Voices                     map[string]json.RawMessage `json:"voices"`
	OutputNamingConvention     string                     `json:"output_naming_convention"`
	OutputBucket               string                     `json:"output_bucket"`
	Status                     string                     `json:"status"`
	OutputFilePath             string                     `json:"output_file_path"`
	NumberOfSpeakers           int                        `json:"number_of_speakers"`
	DiarizationInstructions    string                     `json:"diarization_instructions"`
	TranslationInstructions    string                     `json:"translation_instructions"`
	NoDubbingPhrases           []string                   `json:"no_dubbing_phrases"`
	MergeUtterances            bool                       `json:"merge_utterances"`
	MinimumMergeThreshold      float64                    `json:"minimum_merge_threshold"`
	AdjustSpeed                bool                       `json:"adjust_speed"`
	VocalsVolumeAdjustment     float64                    `json:"vocals_volume_adjustment"`
	BackgroundVolumeAdjustment float64                    `json:"background_volume_adjustment"`
	GeminiModelName            string                     `json:"gemini_model_name"`
	GeminiTemperature          float64                    `json:"gemini_temperature"`
	GeminiTopP                 float64                    `json:"gemini_top_p"`
	GeminiTopK                 int                        `json:"gemini_top_k"`
	GeminiMaxOutputTokens      int                        `json:"gemini_maximum_output_tokens"`
	CleanUp                    bool                       `json:"clean_up"`
	WithVerification           bool                       `json:"with_verification"`
	TTSParams                  json.RawMessage            `json:"tts_params"`
	RowNum                     int                        `json:"row_num"`
}

// UseElevenLabs reports whether the row selects the ElevenLabs voice backend.
func (c *RowConfig) UseElevenLabs() bool {
	return strings.Contains(c.VoiceProvider, VoiceProviderElevenLabs)
}

// AssignedVoices returns the per-speaker voice mapping for a target language,
// or nil when the sheet supplied none.
func (c *RowConfig) AssignedVoices(language string) json.RawMessage {
	if c.Voices == nil {
		return nil
	}
	return c.Voices[language]
}
