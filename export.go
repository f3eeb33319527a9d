package lsp

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

/* CSV export of predicted trajectories, for plotting tools. */

// ExportPrediction streams a prediction as CSV: one row per sampled point,
// tagged with its segment index and color so plotting tools can style the
// pre and post maneuver arcs differently.
func ExportPrediction(w io.Writer, pred Prediction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"segment", "color", "x", "y"}); err != nil {
		return err
	}
	for i, seg := range pred.Segments {
		for _, pt := range seg.Points {
			row := []string{
				strconv.Itoa(i), seg.Color,
				strconv.FormatFloat(pt.X, 'e', -1, 64),
				strconv.FormatFloat(pt.Y, 'e', -1, 64),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportPredictionFile writes a prediction to the given CSV file,
// overwriting any previous export.
func ExportPredictionFile(path string, pred Prediction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer f.Close()
	return ExportPrediction(f, pred)
}
