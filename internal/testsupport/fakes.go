package testsupport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"dubflow/internal/engine"
	"dubflow/internal/sheets"
	"dubflow/internal/storage"
)

// SheetUpdate records one status write observed by the fake sheet client.
type SheetUpdate struct {
	SpreadsheetID string
	Worksheet     string
	CellRange     string
	Values        [][]string
}

// FakeSheetClient implements sheets.Client against in-memory worksheets.
type FakeSheetClient struct {
	Tables    map[string][][]string
	ValuesErr map[string]error
	Updates   []SheetUpdate
	UpdateErr error
}

func (f *FakeSheetClient) Values(ctx context.Context, spreadsheetID, worksheet string) ([][]string, error) {
	if err := f.ValuesErr[worksheet]; err != nil {
		return nil, err
	}
	values, ok := f.Tables[worksheet]
	if !ok {
		return nil, fmt.Errorf("worksheet %q not found", worksheet)
	}
	return values, nil
}

func (f *FakeSheetClient) Update(ctx context.Context, spreadsheetID, worksheet, cellRange string, values [][]string) error {
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	f.Updates = append(f.Updates, SheetUpdate{
		SpreadsheetID: spreadsheetID,
		Worksheet:     worksheet,
		CellRange:     cellRange,
		Values:        values,
	})
	return nil
}

var _ sheets.Client = (*FakeSheetClient)(nil)

// FakePublisher implements pubsub.Publisher, recording payloads and failing
// on configured call indices.
type FakePublisher struct {
	Published [][]byte
	FailOn    map[int]error

	calls int
}

func (f *FakePublisher) Publish(ctx context.Context, data []byte) (string, error) {
	call := f.calls
	f.calls++
	if err := f.FailOn[call]; err != nil {
		return "", err
	}
	f.Published = append(f.Published, append([]byte(nil), data...))
	return fmt.Sprintf("msg-%d", call), nil
}

// ObjectTransfer records one download or upload seen by the fake store.
type ObjectTransfer struct {
	Bucket string
	Object string
	Local  string
}

// FakeObjectStore implements storage.ObjectStore in memory. Downloads create
// the destination file so downstream path handling stays realistic.
type FakeObjectStore struct {
	Downloads   []ObjectTransfer
	DownloadErr error
	Uploads     []ObjectTransfer
	UploadErr   error
}

func (f *FakeObjectStore) Download(ctx context.Context, bucket, object, dest string) error {
	if f.DownloadErr != nil {
		return f.DownloadErr
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(dest, []byte("media"), 0o644); err != nil {
		return err
	}
	f.Downloads = append(f.Downloads, ObjectTransfer{Bucket: bucket, Object: object, Local: dest})
	return nil
}

func (f *FakeObjectStore) Upload(ctx context.Context, bucket, object, src string) (string, error) {
	if f.UploadErr != nil {
		return "", f.UploadErr
	}
	f.Uploads = append(f.Uploads, ObjectTransfer{Bucket: bucket, Object: object, Local: src})
	return storage.ObjectPath(bucket, object), nil
}

var _ storage.ObjectStore = (*FakeObjectStore)(nil)

// ScriptCall records one DubFromScript invocation.
type ScriptCall struct {
	Request engine.Request
	Options engine.ScriptOptions
}

// FakeEngine implements both engine.Factory and engine.Session. It fabricates
// one output file path per dub and can fail on a configured language.
type FakeEngine struct {
	Sessions    int
	CloseCalls  int
	CloseErr    error
	SessionErr  error
	DubCalls    []engine.Request
	ScriptCalls []ScriptCall

	FailLanguage string
	FailErr      error
}

func (f *FakeEngine) NewSession(workDir string) (engine.Session, error) {
	if f.SessionErr != nil {
		return nil, f.SessionErr
	}
	f.Sessions++
	return f, nil
}

func (f *FakeEngine) Dub(ctx context.Context, req engine.Request) (*engine.Result, error) {
	f.DubCalls = append(f.DubCalls, req)
	return f.result(req)
}

func (f *FakeEngine) DubFromScript(ctx context.Context, req engine.Request, opts engine.ScriptOptions) (*engine.Result, error) {
	f.ScriptCalls = append(f.ScriptCalls, ScriptCall{Request: req, Options: opts})
	return f.result(req)
}

func (f *FakeEngine) Close() error {
	f.CloseCalls++
	return f.CloseErr
}

func (f *FakeEngine) result(req engine.Request) (*engine.Result, error) {
	if f.FailLanguage != "" && req.TargetLanguage == f.FailLanguage {
		err := f.FailErr
		if err == nil {
			err = fmt.Errorf("dub failed for %s", req.TargetLanguage)
		}
		return nil, err
	}
	name := "dubbed_" + req.TargetLanguage + ".mp4"
	return &engine.Result{OutputFile: filepath.Join(req.OutputDirectory, name)}, nil
}

var _ engine.Factory = (*FakeEngine)(nil)
var _ engine.Session = (*FakeEngine)(nil)
