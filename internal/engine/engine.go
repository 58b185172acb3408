package engine

import (
	"context"
	"encoding/json"
)

// Request carries the full engine configuration for one dub of one target
// language, assembled from the merged tool and row settings.
type Request struct {
	InputFile                  string   `json:"input_file"`
	OutputDirectory            string   `json:"output_directory"`
	AdvertiserName             string   `json:"advertiser_name"`
	OriginalLanguage           string   `json:"original_language"`
	TargetLanguage             string   `json:"target_language"`
	NumberOfSpeakers           int      `json:"number_of_speakers"`
	GeminiToken                string   `json:"gemini_token"`
	HuggingFaceToken           string   `json:"hugging_face_token"`
	NoDubbingPhrases           []string `json:"no_dubbing_phrases"`
	DiarizationInstructions    string   `json:"diarization_instructions"`
	TranslationInstructions    string   `json:"translation_instructions"`
	MergeUtterances            bool     `json:"merge_utterances"`
	MinimumMergeThreshold      float64  `json:"minimum_merge_threshold"`
	PreferredVoices            []string `json:"preferred_voices"`
	AdjustSpeed                bool     `json:"adjust_speed"`
	VocalsVolumeAdjustment     float64  `json:"vocals_volume_adjustment"`
	BackgroundVolumeAdjustment float64  `json:"background_volume_adjustment"`
	CleanUp                    bool     `json:"clean_up"`
	GeminiModelName            string   `json:"gemini_model_name"`
	Temperature                float64  `json:"temperature"`
	TopP                       float64  `json:"top_p"`
	TopK                       int      `json:"top_k"`
	MaxOutputTokens            int      `json:"max_output_tokens"`
	UseElevenLabs              bool     `json:"use_elevenlabs"`
	ElevenLabsToken            string   `json:"elevenlabs_token"`
	ElevenLabsCloneVoices      bool     `json:"elevenlabs_clone_voices"`
	WithVerification           bool     `json:"with_verification"`
}

// ScriptOptions supplies the pre-translated script and voice assignment for
// "from script" dubs, bypassing the engine's transcription and translation.
type ScriptOptions struct {
	Script         json.RawMessage `json:"script_with_timestamps"`
	TTSParams      json.RawMessage `json:"text_to_speech_parameters,omitempty"`
	AssignedVoices json.RawMessage `json:"assigned_voices,omitempty"`
}

// Result reports the engine's produced media file.
type Result struct {
	OutputFile string
}

// ProgressUpdate captures engine progress events.
type ProgressUpdate struct {
	Percent float64
	Stage   string
	Message string
}

// Session is a scoped engine handle. Close releases the engine's temporary
// resources and runs on every exit path; its error never masks the dub
// outcome.
type Session interface {
	Dub(ctx context.Context, req Request) (*Result, error)
	DubFromScript(ctx context.Context, req Request, opts ScriptOptions) (*Result, error)
	Close() error
}

// Factory opens one Session per worker invocation, scoped to that job's
// working directory.
type Factory interface {
	NewSession(workDir string) (Session, error)
}
