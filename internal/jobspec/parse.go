package jobspec

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"dubflow/internal/services"
)

// ParseRow converts a default-merged sheet record into a typed RowConfig.
// All coercions happen here, once, so a bad cell surfaces as a single
// validation error for the row instead of a parse failure mid-pipeline.
func ParseRow(record map[string]string, rowNum int) (*RowConfig, error) {
	p := &rowParser{record: record}

	cfg := &RowConfig{
		CampaignName:               p.str("campaign_name"),
		CustomTag:                  p.str("custom_tag"),
		OriginalLanguage:           p.str("original_language"),
		TargetLanguages:            p.languages("target_language"),
		VideoURL:                   p.str("video_url"),
		Script:                     p.script("script"),
		TargetGender:               p.str("target_gender"),
		VoiceProvider:              p.str("voice_provider"),
		CloneOriginalVoices:        p.boolean("clone_original_voices"),
		PreferredVoiceFamily:       p.stringList("preferred_voice_family"),
		Voices:                     p.voices("voices"),
		OutputNamingConvention:     p.str("output_naming_convention"),
		OutputBucket:               p.str("output_bucket"),
		Status:                     p.str("status"),
		OutputFilePath:             p.str("output_file_path"),
		NumberOfSpeakers:           p.integer("number_of_speakers"),
		DiarizationInstructions:    p.str("diarization_instructions"),
		TranslationInstructions:    p.str("translation_instructions"),
		NoDubbingPhrases:           p.stringList("no_dubbing_phrases"),
		MergeUtterances:            p.boolean("merge_utterances"),
		MinimumMergeThreshold:      p.float("minimum_merge_threshold"),
		AdjustSpeed:                p.boolean("adjust_speed"),
		VocalsVolumeAdjustment:     p.float("vocals_volume_adjustment"),
		BackgroundVolumeAdjustment: p.float("background_volume_adjustment"),
		GeminiModelName:            p.str("gemini_model_name"),
		GeminiTemperature:          p.float("gemini_temperature"),
		GeminiTopP:                 p.float("gemini_top_p"),
		GeminiTopK:                 p.integer("gemini_top_k"),
		GeminiMaxOutputTokens:      p.integer("gemini_maximum_output_tokens"),
		CleanUp:                    p.boolean("clean_up"),
		WithVerification:           p.boolean("with_verification"),
		TTSParams:                  p.object("tts_params"),
		RowNum:                     rowNum,
	}

	// Script-mode dubs index the voice mapping by target language, so a
	// missing entry must fail the row up front rather than mid-dub.
	if len(cfg.Script) > 0 {
		for _, lang := range cfg.TargetLanguages {
			if cfg.AssignedVoices(lang) == nil {
				p.problems = append(p.problems, fmt.Sprintf("voices: no assignment for %q", lang))
			}
		}
	}

	if len(p.problems) > 0 {
		return nil, services.Wrap(
			services.ErrValidation,
			"jobspec",
			fmt.Sprintf("row %d", rowNum),
			strings.Join(p.problems, "; "),
			nil,
		)
	}
	return cfg, nil
}

type rowParser struct {
	record   map[string]string
	problems []string
}

func (p *rowParser) fail(field, value string, err error) {
	p.problems = append(p.problems, fmt.Sprintf("%s=%q: %v", field, value, err))
}

func (p *rowParser) str(field string) string {
	return p.record[field]
}

// boolean mirrors the sheet convention: case-insensitive "true" is true,
// everything else is false. Never an error.
func (p *rowParser) boolean(field string) bool {
	return strings.EqualFold(strings.TrimSpace(p.record[field]), "true")
}

func (p *rowParser) float(field string) float64 {
	raw := strings.TrimSpace(p.record[field])
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(field, raw, fmt.Errorf("not a number"))
		return 0
	}
	return value
}

func (p *rowParser) integer(field string) int {
	raw := strings.TrimSpace(p.record[field])
	value, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(field, raw, fmt.Errorf("not an integer"))
		return 0
	}
	return value
}

func (p *rowParser) stringList(field string) []string {
	raw := p.record[field]
	values, err := ParseStringList(raw)
	if err != nil {
		p.fail(field, raw, err)
		return nil
	}
	return values
}

func (p *rowParser) languages(field string) []string {
	values := p.stringList(field)
	for _, tag := range values {
		if _, err := language.Parse(tag); err != nil {
			p.fail(field, tag, fmt.Errorf("not a language tag"))
		}
	}
	return values
}

func (p *rowParser) script(field string) []Utterance {
	raw := p.record[field]
	normalized, err := ParseJSONValue(raw, "[]")
	if err != nil {
		p.fail(field, raw, err)
		return nil
	}
	var utterances []Utterance
	if err := json.Unmarshal([]byte(normalized), &utterances); err != nil {
		p.fail(field, raw, fmt.Errorf("not an utterance list"))
		return nil
	}
	return utterances
}

// voices accepts either a per-language object or the template's empty-list
// placeholder, which means no assignment was supplied.
func (p *rowParser) voices(field string) map[string]json.RawMessage {
	raw := p.record[field]
	normalized, err := ParseJSONValue(raw, "[]")
	if err != nil {
		p.fail(field, raw, err)
		return nil
	}
	trimmed := strings.TrimSpace(normalized)
	if strings.HasPrefix(trimmed, "[") {
		return nil
	}
	var voices map[string]json.RawMessage
	if err := json.Unmarshal([]byte(normalized), &voices); err != nil {
		p.fail(field, raw, fmt.Errorf("not a voice mapping"))
		return nil
	}
	return voices
}

func (p *rowParser) object(field string) json.RawMessage {
	raw := p.record[field]
	normalized, err := ParseJSONValue(raw, "{}")
	if err != nil {
		p.fail(field, raw, err)
		return nil
	}
	if !strings.HasPrefix(strings.TrimSpace(normalized), "{") {
		p.fail(field, raw, fmt.Errorf("not an object"))
		return nil
	}
	return json.RawMessage(normalized)
}
