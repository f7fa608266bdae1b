package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"engezna/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "nested", "engezna.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestImportRunLifecycle(t *testing.T) {
	s := newTestStore(t)

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.CreateImportRun(model.ImportRun{ID: "run-1", Filename: "منيو.xlsx", FileSize: 2048, CreatedAt: created}))

	run, err := s.GetImportRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, model.ImportProcessing, run.Status)
	assert.Equal(t, "منيو.xlsx", run.Filename)
	assert.True(t, created.Equal(run.CreatedAt))
	assert.Nil(t, run.CompletedAt)

	run.Status = model.ImportCompleted
	run.TotalSheets = 3
	run.UsedSheets = 2
	run.TotalProducts = 17
	run.WarningCount = 1
	require.NoError(t, s.CompleteImportRun(run))

	run, err = s.GetImportRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, model.ImportCompleted, run.Status)
	assert.Equal(t, 2, run.UsedSheets)
	assert.Equal(t, 17, run.TotalProducts)
	assert.NotNil(t, run.CompletedAt)
}

func TestGetImportRun_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetImportRun("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.CompleteImportRun(model.ImportRun{ID: "missing", Status: model.ImportFailed})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListImportRuns_NewestFirst(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.CreateImportRun(model.ImportRun{ID: id, Filename: id + ".xlsx", CreatedAt: base.Add(time.Duration(i) * time.Hour)}))
	}

	runs, err := s.ListImportRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)
}

func TestSheetDetections(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateImportRun(model.ImportRun{ID: "run-1", Filename: "x.xlsx"}))

	mapping := model.NewColumnMapping()
	mapping.Product = 0
	mapping.Price = 1
	sheet := model.SheetResult{
		Name: "مشروبات",
		Detection: model.DetectionResult{
			Mapping:     mapping,
			Confidence:  0.4,
			PricingType: model.PricingFixed,
			Suggestions: []string{"low detection confidence (0.40); review the column mapping"},
		},
		Data: model.ParsedExcelData{TotalProducts: 2},
	}
	require.NoError(t, s.InsertSheetDetection(NewSheetDetection("run-1", sheet, false)))

	list, err := s.ListSheetDetections("run-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	d := list[0]
	assert.Equal(t, "مشروبات", d.SheetName)
	assert.Equal(t, model.PricingFixed, d.PricingType)
	assert.Equal(t, 0.4, d.Confidence)
	assert.False(t, d.Manual)
	assert.Equal(t, 2, d.TotalProducts)
	assert.Contains(t, d.MappingJSON, `"product":0`)
	assert.Contains(t, d.SuggestionsJSON, "low detection confidence")

	empty, err := s.ListSheetDetections("other")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
