package store

import (
	"encoding/json"
	"fmt"

	"engezna/internal/model"
)

// InsertSheetDetection records how one sheet was mapped (for traceability)
func (s *Store) InsertSheetDetection(d model.SheetDetection) error {
	_, err := s.db.Exec(`
		INSERT INTO sheet_detections (
			run_id, sheet_name, pricing_type, variant_group_id,
			confidence, manual, total_products,
			mapping_json, suggestions_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		d.RunID, d.SheetName, string(d.PricingType), d.VariantGroupID,
		d.Confidence, d.Manual, d.TotalProducts,
		d.MappingJSON, d.SuggestionsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sheet detection: %w", err)
	}
	return nil
}

// ListSheetDetections detections of a run in insertion order
func (s *Store) ListSheetDetections(runID string) ([]model.SheetDetection, error) {
	rows, err := s.db.Query(`
		SELECT run_id, sheet_name, pricing_type, variant_group_id,
			confidence, manual, total_products, mapping_json, suggestions_json
		FROM sheet_detections WHERE run_id = ? ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sheet detections: %w", err)
	}
	defer rows.Close()

	out := []model.SheetDetection{}
	for rows.Next() {
		var (
			d       model.SheetDetection
			pricing string
		)
		if err := rows.Scan(&d.RunID, &d.SheetName, &pricing, &d.VariantGroupID,
			&d.Confidence, &d.Manual, &d.TotalProducts, &d.MappingJSON, &d.SuggestionsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan sheet detection: %w", err)
		}
		d.PricingType = model.PricingType(pricing)
		out = append(out, d)
	}
	return out, rows.Err()
}

// NewSheetDetection flattens a sheet result into a detection row
func NewSheetDetection(runID string, sheet model.SheetResult, manual bool) model.SheetDetection {
	return model.SheetDetection{
		RunID:           runID,
		SheetName:       sheet.Name,
		PricingType:     sheet.Detection.PricingType,
		VariantGroupID:  sheet.Detection.VariantGroupID,
		Confidence:      sheet.Detection.Confidence,
		Manual:          manual,
		TotalProducts:   sheet.Data.TotalProducts,
		MappingJSON:     buildJSON(sheet.Detection.Mapping, "{}"),
		SuggestionsJSON: buildJSON(sheet.Detection.Suggestions, "[]"),
	}
}

func buildJSON(v any, fallback string) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fallback
	}
	return string(b)
}
