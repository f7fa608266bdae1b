package model

import "time"

// ImportStatus lifecycle state of an import run
type ImportStatus string

const (
	ImportProcessing ImportStatus = "processing"
	ImportCompleted  ImportStatus = "completed"
	ImportFailed     ImportStatus = "failed"
)

// ExtractRequest sheets already read by the caller plus per-sheet reviewer overrides
type ExtractRequest struct {
	Sheets    []Sheet                  `json:"sheets" binding:"required,min=1"`
	Overrides map[string]ManualMapping `json:"overrides"`
}

// DetectRequest headers and sample rows of a single sheet
type DetectRequest struct {
	SheetName string        `json:"sheetName"`
	Headers   []string      `json:"headers" binding:"required,min=1"`
	Rows      [][]CellValue `json:"rows"`
}

// ImportRun one recorded import
type ImportRun struct {
	ID            string       `json:"id"`
	Filename      string       `json:"filename"`
	FileSize      int64        `json:"fileSize"`
	Status        ImportStatus `json:"status"`
	TotalSheets   int          `json:"totalSheets"`
	UsedSheets    int          `json:"usedSheets"`
	TotalProducts int          `json:"totalProducts"`
	WarningCount  int          `json:"warningCount"`
	ErrorMessage  string       `json:"errorMessage,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	CompletedAt   *time.Time   `json:"completedAt,omitempty"`
}

// SheetDetection per-sheet detection metadata kept for traceability
type SheetDetection struct {
	RunID           string      `json:"runId"`
	SheetName       string      `json:"sheetName"`
	PricingType     PricingType `json:"pricingType"`
	VariantGroupID  string      `json:"variantGroupId,omitempty"`
	Confidence      float64     `json:"confidence"`
	Manual          bool        `json:"manual"`
	TotalProducts   int         `json:"totalProducts"`
	MappingJSON     string      `json:"mappingJson"`
	SuggestionsJSON string      `json:"suggestionsJson"`
}
