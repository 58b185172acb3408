package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"dubflow/internal/config"
	"dubflow/internal/engine"
	"dubflow/internal/jobspec"
	"dubflow/internal/logging"
	"dubflow/internal/services"
	"dubflow/internal/sheets"
	"dubflow/internal/storage"
)

// reportingStatus prefixes the free-text error line emitted for log-based
// alerting. Alert policies match on this exact token.
const reportingStatus = "ERROR_IN_DUBFLOW_WORKER"

// lockRetryDelay paces re-attempts while another delivery holds a row lock.
const lockRetryDelay = 250 * time.Millisecond

// Worker executes one dubbing job per delivered message: download the source
// media, dub it once per target language, upload the artifacts, and write the
// row's final status back to the sheet.
type Worker struct {
	cfg     *config.Config
	proc    *config.Process
	status  *sheets.StatusWriter
	store   storage.ObjectStore
	engines engine.Factory
	logger  *slog.Logger
}

// New constructs a worker over the given collaborators.
func New(cfg *config.Config, proc *config.Process, client sheets.Client, store storage.ObjectStore, engines engine.Factory, logger *slog.Logger) *Worker {
	return &Worker{
		cfg:     cfg,
		proc:    proc,
		status:  sheets.NewStatusWriter(client),
		store:   store,
		engines: engines,
		logger:  logging.NewComponentLogger(logger, "worker"),
	}
}

// HandleMessage processes one job payload end to end. The returned error is
// only non-nil when the outcome could not be recorded: a malformed payload
// (tagged ErrValidation, no row to report against) or a failed status write.
// Job failures themselves are written to the sheet and swallowed here.
func (w *Worker) HandleMessage(ctx context.Context, data []byte) error {
	payload, err := jobspec.DecodePayload(data)
	if err != nil {
		w.logger.Error("undecodable job payload", logging.Error(err))
		return err
	}
	line := &payload.LineConfig
	ctx = services.WithRowNum(ctx, line.RowNum)

	w.logger.Info("job received",
		logging.Int("row_num", line.RowNum),
		logging.String("video_url", line.VideoURL),
		logging.Int("languages", len(line.TargetLanguages)))

	paths, jobErr := w.processJob(ctx, payload)

	status := sheets.StatusOK
	message := strings.Join(paths, ",")
	if jobErr != nil {
		status = sheets.StatusFailed
		message = services.FailureMessage(jobErr)
		w.logger.Error("job failed",
			logging.Int("row_num", line.RowNum),
			logging.Error(jobErr))
		w.reportFailure(payload.WorksheetURL, line.RowNum, message)
	}

	row := sheets.RowNumber(line.RowNum)
	if writeErr := w.status.Write(ctx, payload.WorksheetURL, payload.DubbingSheet(), row, payload.StatusColumns, status, message); writeErr != nil {
		w.logger.Error("status write failed",
			logging.Int("row_num", line.RowNum),
			logging.Error(writeErr))
		return writeErr
	}

	if jobErr == nil {
		w.logger.Info("job complete",
			logging.Int("row_num", line.RowNum),
			logging.String("output", message))
	}
	return nil
}

// processJob runs the dub pipeline for one row and returns the uploaded
// gs:// paths in target language order. The first failing language aborts
// the job; earlier languages' uploads remain in the bucket.
func (w *Worker) processJob(ctx context.Context, payload *jobspec.Payload) ([]string, error) {
	line := &payload.LineConfig

	lock, err := w.acquireRowLock(ctx, line.RowNum)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			w.logger.Warn("row lock release failed", logging.Error(err))
		}
	}()

	workDir := filepath.Join(w.proc.OutputDirectory, fmt.Sprintf("row-%d-%s", line.RowNum, uuid.NewString()))
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrStorage, "worker", "workdir", workDir, err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			w.logger.Warn("workdir cleanup failed", logging.Error(err))
		}
	}()

	bucket, object, err := storage.SplitObjectURL(line.VideoURL)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "worker", "video_url", "", err)
	}
	inputFile := filepath.Join(workDir, filepath.Base(object))
	if err := w.store.Download(ctx, bucket, object, inputFile); err != nil {
		return nil, services.Wrap(services.ErrStorage, "worker", "download", line.VideoURL, err)
	}

	session, err := w.engines.NewSession(workDir)
	if err != nil {
		return nil, services.Wrap(services.ErrEngine, "worker", "session", "", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			w.logger.Warn("engine session close failed", logging.Error(err))
		}
	}()

	paths := make([]string, 0, len(line.TargetLanguages))
	for _, lang := range line.TargetLanguages {
		path, err := w.dubLanguage(services.WithLanguage(ctx, lang), session, payload, inputFile, workDir, lang)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// dubLanguage produces and uploads one language's artifact.
func (w *Worker) dubLanguage(ctx context.Context, session engine.Session, payload *jobspec.Payload, inputFile, workDir, lang string) (string, error) {
	line := &payload.LineConfig

	outDir := filepath.Join(workDir, lang)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrStorage, "worker", "workdir", outDir, err)
	}

	req := buildEngineRequest(payload, inputFile, outDir, lang)

	w.logger.Info("dubbing language",
		logging.Int("row_num", line.RowNum),
		logging.String("language", lang))

	if w.cfg != nil && w.cfg.Engine.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(w.cfg.Engine.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	var result *engine.Result
	var err error
	if len(line.Script) > 0 {
		opts, optErr := scriptOptions(line, lang)
		if optErr != nil {
			return "", optErr
		}
		result, err = session.DubFromScript(ctx, req, opts)
	} else {
		result, err = session.Dub(ctx, req)
	}
	if err != nil {
		return "", services.Wrap(services.ErrEngine, "worker", "dub", lang, err)
	}

	objectName, err := line.ObjectName(lang, result.OutputFile)
	if err != nil {
		return "", err
	}
	path, err := w.store.Upload(ctx, line.OutputBucket, objectName, result.OutputFile)
	if err != nil {
		return "", services.Wrap(services.ErrStorage, "worker", "upload", objectName, err)
	}
	return path, nil
}

// acquireRowLock serializes concurrent deliveries of the same row. Duplicate
// deliveries then re-run sequentially and overwrite the same output objects.
// Acquisition honors the request context so a blocked invocation gives up
// when the push delivery's deadline expires instead of wedging.
func (w *Worker) acquireRowLock(ctx context.Context, rowNum int) (*flock.Flock, error) {
	lockPath := filepath.Join(w.proc.OutputDirectory, fmt.Sprintf("row-%d.lock", rowNum))
	lock := flock.New(lockPath)
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "worker", "lock", lockPath, err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrStorage, "worker", "lock", lockPath+" held by another delivery", nil)
	}
	return lock, nil
}

func buildEngineRequest(payload *jobspec.Payload, inputFile, outDir, lang string) engine.Request {
	line := &payload.LineConfig
	tool := payload.ToolConfig
	return engine.Request{
		InputFile:                  inputFile,
		OutputDirectory:            outDir,
		AdvertiserName:             line.CampaignName,
		OriginalLanguage:           line.OriginalLanguage,
		TargetLanguage:             lang,
		NumberOfSpeakers:           line.NumberOfSpeakers,
		GeminiToken:                tool[jobspec.ToolKeyAIStudioAPIKey],
		HuggingFaceToken:           tool[jobspec.ToolKeyHuggingFaceToken],
		NoDubbingPhrases:           line.NoDubbingPhrases,
		DiarizationInstructions:    line.DiarizationInstructions,
		TranslationInstructions:    line.TranslationInstructions,
		MergeUtterances:            line.MergeUtterances,
		MinimumMergeThreshold:      line.MinimumMergeThreshold,
		PreferredVoices:            line.PreferredVoiceFamily,
		AdjustSpeed:                line.AdjustSpeed,
		VocalsVolumeAdjustment:     line.VocalsVolumeAdjustment,
		BackgroundVolumeAdjustment: line.BackgroundVolumeAdjustment,
		CleanUp:                    line.CleanUp,
		GeminiModelName:            line.GeminiModelName,
		Temperature:                line.GeminiTemperature,
		TopP:                       line.GeminiTopP,
		TopK:                       line.GeminiTopK,
		MaxOutputTokens:            line.GeminiMaxOutputTokens,
		UseElevenLabs:              line.UseElevenLabs(),
		ElevenLabsToken:            tool[jobspec.ToolKeyElevenLabsAPIKey],
		ElevenLabsCloneVoices:      line.CloneOriginalVoices,
		WithVerification:           line.WithVerification,
	}
}

func scriptOptions(line *jobspec.RowConfig, lang string) (engine.ScriptOptions, error) {
	voices := line.AssignedVoices(lang)
	if voices == nil {
		return engine.ScriptOptions{}, services.Wrap(services.ErrValidation, "worker", "voices",
			fmt.Sprintf("no assignment for %q", lang), nil)
	}
	script, err := json.Marshal(line.Script)
	if err != nil {
		return engine.ScriptOptions{}, services.Wrap(services.ErrValidation, "worker", "script", "", err)
	}
	return engine.ScriptOptions{
		Script:         script,
		TTSParams:      line.TTSParams,
		AssignedVoices: voices,
	}, nil
}

// reportFailure emits the machine-parseable error line alerting keys on.
func (w *Worker) reportFailure(worksheetURL string, rowNum int, message string) {
	detail := map[string]any{
		"worksheet_url": worksheetURL,
		"status":        reportingStatus,
		"row_num":       rowNum,
		"message":       message,
		"success":       false,
	}
	encoded, err := json.Marshal(detail)
	if err != nil {
		w.logger.Error(reportingStatus)
		return
	}
	w.logger.Error(reportingStatus + ": " + string(encoded))
}
