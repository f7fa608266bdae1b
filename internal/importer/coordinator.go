package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"engezna/internal/model"
	"engezna/internal/service/excel"
	"engezna/internal/store"
)

// previewRows sample rows returned with a sheet preview
const previewRows = 5

// Coordinator runs a workbook through extraction and records the run
type Coordinator struct {
	store     *store.Store
	extractor *excel.Extractor
	uploadDir string
	log       zerolog.Logger
}

// Options coordinator settings
type Options struct {
	Extractor excel.ExtractorOptions // Logger is replaced by Options.Logger
	UploadDir string                 // uploads are kept here when non-empty
	Logger    zerolog.Logger
}

// NewCoordinator creates an import coordinator
func NewCoordinator(st *store.Store, opts Options) *Coordinator {
	opts.Extractor.Logger = opts.Logger
	return &Coordinator{
		store:     st,
		extractor: excel.NewExtractor(opts.Extractor),
		uploadDir: opts.UploadDir,
		log:       opts.Logger,
	}
}

// ImportOptions one uploaded workbook
type ImportOptions struct {
	Filename  string
	Data      []byte
	Overrides map[string]model.ManualMapping
}

// ProgressEvent progress of an import
type ProgressEvent struct {
	Type      string    `json:"type"` // start/info/sheet_done/done/error
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ImportReport payload of the done event
type ImportReport struct {
	RunID    string                  `json:"runId"`
	Filename string                  `json:"filename"`
	Duration time.Duration           `json:"duration"`
	Result   *model.MultiSheetResult `json:"result"`
}

// SheetPreview detection of one sheet before extraction
type SheetPreview struct {
	Name       string                `json:"name"`
	Headers    []string              `json:"headers"`
	SampleRows [][]model.CellValue   `json:"sampleRows"`
	TotalRows  int                   `json:"totalRows"`
	Detection  model.DetectionResult `json:"detection"`
}

// Import runs the import in the background; the channel closes after a done or
// error event.
func (c *Coordinator) Import(ctx context.Context, opts ImportOptions) <-chan ProgressEvent {
	ch := make(chan ProgressEvent, 16)

	go func() {
		defer close(ch)
		c.doImport(ctx, opts, ch)
	}()

	return ch
}

func (c *Coordinator) doImport(ctx context.Context, opts ImportOptions, ch chan ProgressEvent) {
	start := time.Now()
	send := func(typ, msg string, data any) {
		c.sendProgress(ctx, ch, ProgressEvent{Type: typ, Message: msg, Data: data, Timestamp: time.Now()})
	}

	reader := excel.NewReader()
	defer reader.Close()

	run := model.ImportRun{
		ID:        reader.FileID(),
		Filename:  filepath.Base(opts.Filename),
		FileSize:  int64(len(opts.Data)),
		Status:    model.ImportProcessing,
		CreatedAt: start.UTC(),
	}
	log := c.log.With().Str("run", run.ID).Str("file", run.Filename).Logger()

	if err := c.store.CreateImportRun(run); err != nil {
		log.Error().Err(err).Msg("failed to record import run")
		send("error", err.Error(), nil)
		return
	}
	send("start", fmt.Sprintf("importing %s", run.Filename), map[string]string{
		"runId":    run.ID,
		"filename": run.Filename,
	})

	fail := func(err error) {
		log.Warn().Err(err).Msg("import failed")
		run.Status = model.ImportFailed
		run.ErrorMessage = err.Error()
		if serr := c.store.CompleteImportRun(run); serr != nil {
			log.Error().Err(serr).Msg("failed to mark import run failed")
		}
		send("error", err.Error(), map[string]string{"runId": run.ID})
	}

	if err := c.saveUpload(run, opts.Data); err != nil {
		log.Warn().Err(err).Msg("failed to keep upload")
	}

	if err := reader.LoadFile(bytes.NewReader(opts.Data)); err != nil {
		fail(err)
		return
	}
	sheets, err := reader.Sheets()
	if err != nil {
		fail(err)
		return
	}
	run.TotalSheets = len(sheets)
	send("info", fmt.Sprintf("found %d sheets", len(sheets)), map[string]int{"totalSheets": len(sheets)})

	result, err := c.extractor.Extract(ctx, sheets, opts.Overrides)
	if err != nil {
		fail(err)
		return
	}

	for _, sheet := range result.Sheets {
		_, manual := opts.Overrides[sheet.Name]
		if err := c.store.InsertSheetDetection(store.NewSheetDetection(run.ID, sheet, manual)); err != nil {
			log.Error().Err(err).Str("sheet", sheet.Name).Msg("failed to record sheet detection")
		}
		send("sheet_done", fmt.Sprintf("sheet %q: %d products (%s, confidence %.2f)",
			sheet.Name, sheet.Data.TotalProducts, sheet.Detection.PricingType, sheet.Detection.Confidence),
			map[string]any{
				"sheetName":   sheet.Name,
				"pricingType": sheet.Detection.PricingType,
				"confidence":  sheet.Detection.Confidence,
				"products":    sheet.Data.TotalProducts,
			})
	}

	run.Status = model.ImportCompleted
	run.UsedSheets = len(result.Sheets)
	run.TotalProducts = result.Combined.TotalProducts
	run.WarningCount = len(result.Combined.Warnings)
	if err := c.store.CompleteImportRun(run); err != nil {
		log.Error().Err(err).Msg("failed to complete import run")
	}

	log.Info().
		Int("sheets", run.UsedSheets).
		Int("products", run.TotalProducts).
		Int("warnings", run.WarningCount).
		Dur("took", time.Since(start)).
		Msg("import completed")

	send("done", "import completed", &ImportReport{
		RunID:    run.ID,
		Filename: run.Filename,
		Duration: time.Since(start),
		Result:   result,
	})
}

func (c *Coordinator) saveUpload(run model.ImportRun, data []byte) error {
	if c.uploadDir == "" {
		return nil
	}
	if err := os.MkdirAll(c.uploadDir, 0755); err != nil {
		return err
	}
	return os.WriteFile(c.uploadPath(run), data, 0644)
}

func (c *Coordinator) uploadPath(run model.ImportRun) string {
	ext := strings.ToLower(filepath.Ext(run.Filename))
	if ext == "" {
		ext = ".xlsx"
	}
	return filepath.Join(c.uploadDir, run.ID+ext)
}

// Preview reads a workbook and detects every sheet without extracting rows.
func (c *Coordinator) Preview(data []byte) ([]SheetPreview, error) {
	sheets, err := excel.ReadWorkbook(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	out := make([]SheetPreview, 0, len(sheets))
	for _, s := range sheets {
		if len(s.Headers) == 0 {
			continue
		}
		sample := s.Rows
		if len(sample) > previewRows {
			sample = sample[:previewRows]
		}
		out = append(out, SheetPreview{
			Name:       s.Name,
			Headers:    s.Headers,
			SampleRows: sample,
			TotalRows:  len(s.Rows),
			Detection:  c.extractor.Detect(s),
		})
	}
	if len(out) == 0 {
		return nil, excel.ErrNoUsableSheets
	}
	return out, nil
}

// Extract runs extraction over sheets the caller already read. Nothing is recorded.
func (c *Coordinator) Extract(ctx context.Context, req model.ExtractRequest) (*model.MultiSheetResult, error) {
	return c.extractor.Extract(ctx, req.Sheets, req.Overrides)
}

// Detect detects the columns of a single sheet.
func (c *Coordinator) Detect(req model.DetectRequest) model.DetectionResult {
	return c.extractor.Detect(model.Sheet{Name: req.SheetName, Headers: req.Headers, Rows: req.Rows})
}

// Run one recorded import and its sheet detections
type Run struct {
	model.ImportRun
	Sheets []model.SheetDetection `json:"sheets"`
}

// GetRun loads a recorded import
func (c *Coordinator) GetRun(id string) (*Run, error) {
	run, err := c.store.GetImportRun(id)
	if err != nil {
		return nil, err
	}
	sheets, err := c.store.ListSheetDetections(id)
	if err != nil {
		return nil, err
	}
	return &Run{ImportRun: run, Sheets: sheets}, nil
}

// ListRuns most recent imports first
func (c *Coordinator) ListRuns(limit int) ([]model.ImportRun, error) {
	return c.store.ListImportRuns(limit)
}

// IsNotFound reports whether err means the run does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

// sendProgress blocks until the event is delivered or ctx is done
func (c *Coordinator) sendProgress(ctx context.Context, ch chan ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	case <-ctx.Done():
	}
}
