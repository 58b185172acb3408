package worker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"dubflow/internal/config"
	"dubflow/internal/jobspec"
	"dubflow/internal/logging"
	"dubflow/internal/pubsub"
	"dubflow/internal/services"
	"dubflow/internal/sheets"
	"dubflow/internal/testsupport"
)

const worksheetURL = "https://docs.google.com/spreadsheets/d/abc123/edit#gid=0"

type workerFixture struct {
	worker  *Worker
	proc    *config.Process
	client  *testsupport.FakeSheetClient
	store   *testsupport.FakeObjectStore
	engines *testsupport.FakeEngine
}

func newFixture(t *testing.T) *workerFixture {
	t.Helper()
	f := &workerFixture{
		proc:    testsupport.NewProcess(t),
		client:  &testsupport.FakeSheetClient{},
		store:   &testsupport.FakeObjectStore{},
		engines: &testsupport.FakeEngine{},
	}
	f.worker = New(testsupport.NewConfig(t), f.proc, f.client, f.store, f.engines, logging.NewNop())
	return f
}

func basePayload() *jobspec.Payload {
	return &jobspec.Payload{
		WorksheetURL: worksheetURL,
		LineConfig: jobspec.RowConfig{
			CampaignName:           "summer",
			OriginalLanguage:       "en-US",
			TargetLanguages:        []string{"fr-FR"},
			VideoURL:               "gs://media/ads/in.mp4",
			OutputNamingConvention: "{campaign_name}_{target_language}",
			OutputBucket:           "out-bucket",
			NumberOfSpeakers:       2,
			RowNum:                 3,
		},
		ToolConfig: map[string]string{
			jobspec.ToolKeyDubbingConfig:    "dubbing",
			jobspec.ToolKeyAIStudioAPIKey:   "gem-key",
			jobspec.ToolKeyElevenLabsAPIKey: "el-key",
		},
		StatusColumns: sheets.DefaultStatusColumns(),
	}
}

func encode(t *testing.T, payload *jobspec.Payload) []byte {
	t.Helper()
	data, err := payload.Encode()
	if err != nil {
		t.Fatalf("encode payload: %v", err)
	}
	return data
}

func lastUpdate(t *testing.T, client *testsupport.FakeSheetClient) testsupport.SheetUpdate {
	t.Helper()
	if len(client.Updates) == 0 {
		t.Fatal("no status writes recorded")
	}
	return client.Updates[len(client.Updates)-1]
}

func TestHandleMessageHappyPath(t *testing.T) {
	f := newFixture(t)

	if err := f.worker.HandleMessage(context.Background(), encode(t, basePayload())); err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}

	if len(f.store.Downloads) != 1 {
		t.Fatalf("expected 1 download, got %d", len(f.store.Downloads))
	}
	download := f.store.Downloads[0]
	if download.Bucket != "media" || download.Object != "ads/in.mp4" {
		t.Errorf("download = %+v", download)
	}

	if f.engines.Sessions != 1 {
		t.Fatalf("expected 1 engine session, got %d", f.engines.Sessions)
	}
	if len(f.engines.DubCalls) != 1 {
		t.Fatalf("expected 1 dub call, got %d", len(f.engines.DubCalls))
	}
	req := f.engines.DubCalls[0]
	if req.TargetLanguage != "fr-FR" {
		t.Errorf("target language = %q", req.TargetLanguage)
	}
	if req.GeminiToken != "gem-key" || req.ElevenLabsToken != "el-key" {
		t.Errorf("engine tokens not forwarded: %+v", req)
	}
	if req.NumberOfSpeakers != 2 {
		t.Errorf("number of speakers = %d", req.NumberOfSpeakers)
	}

	if len(f.store.Uploads) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(f.store.Uploads))
	}
	upload := f.store.Uploads[0]
	if upload.Bucket != "out-bucket" || upload.Object != "summer_fr-FR.mp4" {
		t.Errorf("upload = %+v", upload)
	}

	update := lastUpdate(t, f.client)
	if update.Worksheet != "dubbing" {
		t.Errorf("status worksheet = %q", update.Worksheet)
	}
	if update.CellRange != "P5:R5" {
		t.Errorf("row 3 should write P5:R5, got %q", update.CellRange)
	}
	values := update.Values[0]
	if values[0] != "OK" {
		t.Errorf("status = %q", values[0])
	}
	if values[2] != "gs://out-bucket/summer_fr-FR.mp4" {
		t.Errorf("message = %q", values[2])
	}

	if f.engines.CloseCalls != 1 {
		t.Errorf("session close calls = %d", f.engines.CloseCalls)
	}
}

func TestHandleMessageDubsLanguagesInOrder(t *testing.T) {
	f := newFixture(t)
	payload := basePayload()
	payload.LineConfig.TargetLanguages = []string{"fr-FR", "de-DE", "es-ES"}

	if err := f.worker.HandleMessage(context.Background(), encode(t, payload)); err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}

	if len(f.engines.DubCalls) != 3 {
		t.Fatalf("expected 3 dub calls, got %d", len(f.engines.DubCalls))
	}
	for i, lang := range []string{"fr-FR", "de-DE", "es-ES"} {
		if f.engines.DubCalls[i].TargetLanguage != lang {
			t.Errorf("dub call %d language = %q, want %q", i, f.engines.DubCalls[i].TargetLanguage, lang)
		}
	}

	message := lastUpdate(t, f.client).Values[0][2]
	parts := strings.Split(message, ",")
	if len(parts) != 3 {
		t.Fatalf("expected 3 comma-joined paths, got %q", message)
	}
	if !strings.Contains(parts[1], "de-DE") {
		t.Errorf("paths out of order: %q", message)
	}
}

func TestHandleMessageStopsAtFirstFailingLanguage(t *testing.T) {
	f := newFixture(t)
	f.engines.FailLanguage = "de-DE"
	f.engines.FailErr = errors.New("no speech detected")
	payload := basePayload()
	payload.LineConfig.TargetLanguages = []string{"fr-FR", "de-DE", "es-ES"}

	if err := f.worker.HandleMessage(context.Background(), encode(t, payload)); err != nil {
		t.Fatalf("job failure must be recorded, not returned: %v", err)
	}

	if len(f.engines.DubCalls) != 2 {
		t.Fatalf("expected dubbing to stop after the failure, got %d calls", len(f.engines.DubCalls))
	}
	if len(f.store.Uploads) != 1 {
		t.Fatalf("expected the succeeded language's upload to remain, got %d", len(f.store.Uploads))
	}

	values := lastUpdate(t, f.client).Values[0]
	if values[0] != "FAILED" {
		t.Errorf("status = %q", values[0])
	}
	if !strings.Contains(values[2], "no speech detected") {
		t.Errorf("message = %q", values[2])
	}
	if f.engines.CloseCalls != 1 {
		t.Errorf("session close calls = %d", f.engines.CloseCalls)
	}
}

func TestHandleMessageSwallowsCloseError(t *testing.T) {
	f := newFixture(t)
	f.engines.CloseErr = errors.New("scratch dir busy")

	if err := f.worker.HandleMessage(context.Background(), encode(t, basePayload())); err != nil {
		t.Fatalf("close error must not affect the outcome: %v", err)
	}
	if got := lastUpdate(t, f.client).Values[0][0]; got != "OK" {
		t.Errorf("status = %q", got)
	}
}

func TestHandleMessageUsesScriptWhenPresent(t *testing.T) {
	f := newFixture(t)
	payload := basePayload()
	payload.LineConfig.Script = []jobspec.Utterance{
		{Start: 0, End: 1.5, Text: "Bonjour", SpeakerID: "spk1"},
	}
	payload.LineConfig.Voices = map[string]json.RawMessage{
		"fr-FR": json.RawMessage(`{"spk1":"Rachel"}`),
	}
	payload.LineConfig.TTSParams = json.RawMessage(`{"stability":0.5}`)

	if err := f.worker.HandleMessage(context.Background(), encode(t, payload)); err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}

	if len(f.engines.DubCalls) != 0 {
		t.Fatalf("script rows must not use the transcribe path, got %d dub calls", len(f.engines.DubCalls))
	}
	if len(f.engines.ScriptCalls) != 1 {
		t.Fatalf("expected 1 script dub call, got %d", len(f.engines.ScriptCalls))
	}
	opts := f.engines.ScriptCalls[0].Options
	if !strings.Contains(string(opts.Script), "Bonjour") {
		t.Errorf("script not forwarded: %s", opts.Script)
	}
	if string(opts.AssignedVoices) != `{"spk1":"Rachel"}` {
		t.Errorf("assigned voices = %s", opts.AssignedVoices)
	}
	if !strings.Contains(string(opts.TTSParams), "stability") {
		t.Errorf("tts params = %s", opts.TTSParams)
	}
}

func TestHandleMessageFailsScriptWithoutVoiceAssignment(t *testing.T) {
	f := newFixture(t)
	payload := basePayload()
	payload.LineConfig.TargetLanguages = []string{"fr-FR", "de-DE"}
	payload.LineConfig.Script = []jobspec.Utterance{
		{Start: 0, End: 1, Text: "Bonjour", SpeakerID: "spk1"},
	}
	payload.LineConfig.Voices = map[string]json.RawMessage{
		"fr-FR": json.RawMessage(`{"spk1":"Rachel"}`),
	}

	if err := f.worker.HandleMessage(context.Background(), encode(t, payload)); err != nil {
		t.Fatalf("missing voices must be recorded, not returned: %v", err)
	}

	if len(f.engines.ScriptCalls) != 1 {
		t.Fatalf("only the assigned language should dub, got %d calls", len(f.engines.ScriptCalls))
	}
	values := lastUpdate(t, f.client).Values[0]
	if values[0] != "FAILED" {
		t.Errorf("status = %q", values[0])
	}
	if !strings.Contains(values[2], `"de-DE"`) {
		t.Errorf("message should name the unassigned language, got %q", values[2])
	}
	if f.engines.CloseCalls != 1 {
		t.Errorf("session close calls = %d", f.engines.CloseCalls)
	}
}

func TestHandleMessageFailsEngineSessionError(t *testing.T) {
	f := newFixture(t)
	f.engines.SessionErr = errors.New("binary not found")

	if err := f.worker.HandleMessage(context.Background(), encode(t, basePayload())); err != nil {
		t.Fatalf("session error must be recorded, not returned: %v", err)
	}
	values := lastUpdate(t, f.client).Values[0]
	if values[0] != "FAILED" {
		t.Errorf("status = %q", values[0])
	}
	if !strings.Contains(values[2], "binary not found") {
		t.Errorf("message = %q", values[2])
	}
}

func TestHandleMessageGivesUpOnHeldRowLock(t *testing.T) {
	f := newFixture(t)
	payload := basePayload()

	held := flock.New(filepath.Join(f.proc.OutputDirectory, "row-3.lock"))
	locked, err := held.TryLock()
	if err != nil || !locked {
		t.Fatalf("could not pre-acquire row lock: %v %v", locked, err)
	}
	defer held.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := f.worker.HandleMessage(ctx, encode(t, payload)); err != nil {
		t.Fatalf("lock contention must be recorded, not returned: %v", err)
	}
	if f.engines.Sessions != 0 {
		t.Fatalf("no engine session should open while the row is locked, got %d", f.engines.Sessions)
	}
	values := lastUpdate(t, f.client).Values[0]
	if values[0] != "FAILED" {
		t.Errorf("status = %q", values[0])
	}
	if !strings.Contains(values[2], "lock") {
		t.Errorf("message = %q", values[2])
	}
}

func TestHandleMessageRejectsMalformedPayload(t *testing.T) {
	f := newFixture(t)

	err := f.worker.HandleMessage(context.Background(), []byte(`{"line_config":`))
	if err == nil {
		t.Fatal("expected error for malformed payload")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.client.Updates) != 0 {
		t.Fatalf("no row to report against, got %d updates", len(f.client.Updates))
	}
}

func TestHandleMessageReturnsStatusWriteFailure(t *testing.T) {
	f := newFixture(t)
	f.client.UpdateErr = errors.New("permission denied")

	err := f.worker.HandleMessage(context.Background(), encode(t, basePayload()))
	if err == nil {
		t.Fatal("expected error when the status write fails")
	}
	if !strings.Contains(err.Error(), "permission denied") {
		t.Fatalf("error = %v", err)
	}
}

func TestHandleMessageFailsBadVideoURL(t *testing.T) {
	f := newFixture(t)
	payload := basePayload()
	payload.LineConfig.VideoURL = "not-a-path"

	if err := f.worker.HandleMessage(context.Background(), encode(t, payload)); err != nil {
		t.Fatalf("validation failure must be recorded, not returned: %v", err)
	}
	if got := lastUpdate(t, f.client).Values[0][0]; got != "FAILED" {
		t.Errorf("status = %q", got)
	}
	if f.engines.Sessions != 0 {
		t.Errorf("no engine session should open, got %d", f.engines.Sessions)
	}
}

func pushBody(t *testing.T, data []byte) *strings.Reader {
	t.Helper()
	var envelope pubsub.PushEnvelope
	envelope.Message.Data = data
	envelope.Message.MessageID = "m-1"
	body, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return strings.NewReader(string(body))
}

func TestHandlerAcknowledgesHandledJob(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/worker", pushBody(t, encode(t, basePayload())))
	rec := httptest.NewRecorder()
	f.worker.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "OK" {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestHandlerAcknowledgesRecordedFailure(t *testing.T) {
	f := newFixture(t)
	f.engines.FailLanguage = "fr-FR"

	req := httptest.NewRequest(http.MethodPost, "/worker", pushBody(t, encode(t, basePayload())))
	rec := httptest.NewRecorder()
	f.worker.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("recorded failure should still ack, got %d", rec.Code)
	}
	if got := lastUpdate(t, f.client).Values[0][0]; got != "FAILED" {
		t.Errorf("status = %q", got)
	}
}

func TestHandlerRejectsBadEnvelope(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/worker", strings.NewReader(`{"message":{}}`))
	rec := httptest.NewRecorder()
	f.worker.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandlerRejectsMalformedPayload(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/worker", pushBody(t, []byte(`{"no":"worksheet"}`)))
	rec := httptest.NewRecorder()
	f.worker.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed payload should not redeliver, got %d", rec.Code)
	}
}

func TestHandlerRequestsRedeliveryOnStatusWriteFailure(t *testing.T) {
	f := newFixture(t)
	f.client.UpdateErr = errors.New("permission denied")

	req := httptest.NewRequest(http.MethodPost, "/worker", pushBody(t, encode(t, basePayload())))
	rec := httptest.NewRecorder()
	f.worker.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status write failure should redeliver, got %d", rec.Code)
	}
}

func TestHandlerRejectsBadMethod(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/worker", nil)
	rec := httptest.NewRecorder()
	f.worker.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
}
