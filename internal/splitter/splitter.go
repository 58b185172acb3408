package splitter

import (
	"context"
	"encoding/json"
	"log/slog"

	"dubflow/internal/config"
	"dubflow/internal/jobspec"
	"dubflow/internal/logging"
	"dubflow/internal/pubsub"
	"dubflow/internal/services"
	"dubflow/internal/sheets"
)

// reportingStatus prefixes the free-text error line emitted for log-based
// alerting. Alert policies match on this exact token.
const reportingStatus = "ERROR_IN_DUBFLOW_SPLITTER"

// Request triggers one batch dispatch: every data row of the dubbing sheet
// becomes one published job message.
type Request struct {
	WorksheetURL        string `json:"worksheet_url"`
	ToolConfigSheetName string `json:"tool_config_sheet_name"`
}

// Splitter fans a spreadsheet of dubbing jobs out onto the job topic. Rows
// are independent: one bad row is marked FAILED on the sheet and the rest
// still dispatch.
type Splitter struct {
	cfg       *config.Config
	client    sheets.Client
	status    *sheets.StatusWriter
	publisher pubsub.Publisher
	logger    *slog.Logger
}

// New constructs a splitter over the given sheet client and publisher.
func New(cfg *config.Config, client sheets.Client, publisher pubsub.Publisher, logger *slog.Logger) *Splitter {
	return &Splitter{
		cfg:       cfg,
		client:    client,
		status:    sheets.NewStatusWriter(client),
		publisher: publisher,
		logger:    logging.NewComponentLogger(logger, "splitter"),
	}
}

// Run loads the tool config and job sheets, then dispatches each data row.
// An error return means the batch itself could not start; per-row failures
// are reported on the sheet and do not abort the batch.
func (s *Splitter) Run(ctx context.Context, req Request) error {
	if req.WorksheetURL == "" {
		return services.Wrap(services.ErrValidation, "splitter", "run", "worksheet_url is required", nil)
	}
	if req.ToolConfigSheetName == "" {
		return services.Wrap(services.ErrValidation, "splitter", "run", "tool_config_sheet_name is required", nil)
	}

	toolTable, err := sheets.LoadTable(ctx, s.client, req.WorksheetURL, req.ToolConfigSheetName)
	if err != nil {
		s.reportBatchFailure(req.WorksheetURL, err)
		return err
	}
	tool := jobspec.ToolConfig(toolTable)

	dubbingSheet := tool[jobspec.ToolKeyDubbingConfig]
	if dubbingSheet == "" {
		err := services.Wrap(services.ErrConfiguration, "splitter", "run", "tool config has no DUBBING_CONFIG entry", nil)
		s.reportBatchFailure(req.WorksheetURL, err)
		return err
	}

	rowTable, err := sheets.LoadTable(ctx, s.client, req.WorksheetURL, dubbingSheet)
	if err != nil {
		s.reportBatchFailure(req.WorksheetURL, err)
		return err
	}
	rows := jobspec.MergedRows(rowTable)

	s.logger.Info("dispatching batch",
		logging.String("worksheet", dubbingSheet),
		logging.Int("rows", len(rows)))

	columns := s.statusColumns()
	for rowNum, record := range rows {
		s.dispatchRow(services.WithRowNum(ctx, rowNum), req.WorksheetURL, dubbingSheet, tool, columns, record, rowNum)
	}
	return nil
}

// dispatchRow publishes one row, writing FAILED status back on any error.
// Successful dispatch leaves the status cells untouched; the worker owns the
// row's lifecycle from here.
func (s *Splitter) dispatchRow(ctx context.Context, worksheetURL, worksheet string, tool map[string]string, columns sheets.StatusColumns, record map[string]string, rowNum int) {
	err := s.publishRow(ctx, worksheetURL, tool, columns, record, rowNum)
	if err == nil {
		return
	}

	message := services.FailureMessage(err)
	s.logger.Error("row dispatch failed",
		logging.Int("row_num", rowNum),
		logging.Error(err))
	s.reportRowFailure(worksheetURL, rowNum, message)

	if writeErr := s.status.Write(ctx, worksheetURL, worksheet, sheets.RowNumber(rowNum), columns, sheets.StatusFailed, message); writeErr != nil {
		s.logger.Error("status write failed",
			logging.Int("row_num", rowNum),
			logging.Error(writeErr))
	}
}

func (s *Splitter) publishRow(ctx context.Context, worksheetURL string, tool map[string]string, columns sheets.StatusColumns, record map[string]string, rowNum int) error {
	line, err := jobspec.ParseRow(record, rowNum)
	if err != nil {
		return err
	}

	payload := &jobspec.Payload{
		WorksheetURL:  worksheetURL,
		LineConfig:    *line,
		ToolConfig:    tool,
		StatusColumns: columns,
	}
	data, err := payload.Encode()
	if err != nil {
		return services.Wrap(services.ErrPublish, "splitter", "encode", "", err)
	}

	id, err := s.publisher.Publish(ctx, data)
	if err != nil {
		return services.Wrap(services.ErrPublish, "splitter", "publish", "", err)
	}

	s.logger.Info("row dispatched",
		logging.Int("row_num", rowNum),
		logging.String("message_id", id))
	return nil
}

func (s *Splitter) statusColumns() sheets.StatusColumns {
	if s.cfg == nil {
		return sheets.DefaultStatusColumns()
	}
	return sheets.StatusColumns{
		Status:    s.cfg.Status.StatusColumn,
		UpdatedAt: s.cfg.Status.UpdatedAtColumn,
		Message:   s.cfg.Status.MessageColumn,
	}
}

// reportRowFailure emits the machine-parseable error line alerting keys on.
func (s *Splitter) reportRowFailure(worksheetURL string, rowNum int, message string) {
	s.reportFailure(map[string]any{
		"worksheet_url": worksheetURL,
		"status":        reportingStatus,
		"row_num":       rowNum,
		"message":       message,
		"success":       false,
	})
}

func (s *Splitter) reportBatchFailure(worksheetURL string, err error) {
	s.reportFailure(map[string]any{
		"worksheet_url": worksheetURL,
		"status":        reportingStatus,
		"message":       services.FailureMessage(err),
		"success":       false,
	})
}

func (s *Splitter) reportFailure(detail map[string]any) {
	encoded, err := json.Marshal(detail)
	if err != nil {
		s.logger.Error(reportingStatus)
		return
	}
	s.logger.Error(reportingStatus + ": " + string(encoded))
}
