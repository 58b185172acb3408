package jobspec

// Voice providers selectable per row. Provider matching is by substring: any
// voice_provider value containing "ElevenLabs" selects the ElevenLabs
// backend, everything else falls through to Google voices.
const (
	VoiceProviderElevenLabs = "ElevenLabs"
	VoiceProviderGoogle     = "Google"
)

// Tool config keys consumed by the pipeline. Engine credential keys are
// forwarded verbatim; DubbingConfigKey names the worksheet holding the
// per-row job table.
const (
	ToolKeyDubbingConfig    = "DUBBING_CONFIG"
	ToolKeyAIStudioAPIKey   = "AI_STUDIO_API_KEY"
	ToolKeyHuggingFaceToken = "HUGGING_FACE_ACCESS_TOKEN"
	ToolKeyElevenLabsAPIKey = "ELEVEN_LABS_API_KEY"
)

// defaultTemplate is the fixed per-row default template. A sheet cell that is
// present and non-empty wins over the default; everything else falls back
// silently. Keys absent from the sheet entirely are not an error.
var defaultTemplate = map[string]string{
	"campaign_name":                "Default",
	"custom_tag":                   "default_tag",
	"original_language":            "",
	"target_language":              "[]",
	"video_url":                    "",
	"script":                       "[]",
	"target_gender":                "",
	"voice_provider":               VoiceProviderGoogle,
	"clone_original_voices":        "False",
	"preferred_voice_family":       "[]",
	"voices":                       "[]",
	"output_naming_convention":     "",
	"output_bucket":                "",
	"status":                       "",
	"output_file_path":             "",
	"number_of_speakers":           "1",
	"diarization_instructions":     "",
	"translation_instructions":     "",
	"no_dubbing_phrases":           "[]",
	"merge_utterances":             "True",
	"minimum_merge_threshold":      "0.001",
	"adjust_speed":                 "True",
	"vocals_volume_adjustment":     "5.0",
	"background_volume_adjustment": "0.0",
	"gemini_model_name":            "gemini-1.5-flash",
	"gemini_temperature":           "1.0",
	"gemini_top_p":                 "0.95",
	"gemini_top_k":                 "64",
	"gemini_maximum_output_tokens": "8192",
	"clean_up":                     "False",
	"with_verification":            "False",
	"tts_params":                   "{}",
}

// DefaultTemplate returns a copy of the fixed per-row default template.
func DefaultTemplate() map[string]string {
	out := make(map[string]string, len(defaultTemplate))
	for k, v := range defaultTemplate {
		out[k] = v
	}
	return out
}
