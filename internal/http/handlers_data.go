package http

import (
	"bytes"
	"fmt"
	"net/http"
	"slices"
	"time"

	"fintrack/internal/log"
	"fintrack/internal/view"
)

// handleChart serves one chart dataset as JSON. Datasets are memoized per
// snapshot version, so a new List invalidates them implicitly.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	name := r.PathValue("name")
	if !slices.Contains(view.ChartNames, name) {
		NotFoundError("Unknown chart").Write(w)
		return
	}

	txs, version := s.store.Snapshot()
	key := fmt.Sprintf("%s:%d:%s", name, version, s.format.Locale())
	chart := s.charts.GetOrCompute(key, func() view.Chart {
		c, _ := view.BuildChart(name, txs, s.format)
		return c
	})

	w.Header().Set("Cache-Control", "no-store")
	NewHTMXResponse().BodyJSON(chart).Write(w)
}

// handleExportCSV downloads the ledger, narrowed by q like the wallet table.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	txs := s.snapshotFiltered(r)
	var buf bytes.Buffer
	if err := view.WriteCSV(&buf, txs); err != nil {
		log.LogError(r.Context(), "CSV export failed", err, log.ComponentExport, log.OpExport, nil)
		ErrorResponse(http.StatusInternalServerError, "Export failed").Write(w)
		return
	}
	s.metrics.exports.Add(1)

	filename := "transactions-" + time.Now().Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// handleExportSheets copies the current snapshot to the configured spreadsheet.
func (s *Server) handleExportSheets(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	resp := NewHTMXResponse().Header("HX-Reswap", "none")
	if s.exporter == nil {
		resp.Status(http.StatusServiceUnavailable).
			TriggerErrorNotification("Spreadsheet export is not configured").
			Write(w)
		return
	}

	txs := s.snapshotFiltered(r)
	n, err := s.exporter.Export(r.Context(), txs)
	if err != nil {
		log.LogError(r.Context(), "Sheets export failed", err, log.ComponentExport, log.OpExport, nil)
		resp.Status(http.StatusBadGateway).
			TriggerErrorNotification("Export failed").
			Write(w)
		return
	}
	s.metrics.exports.Add(1)
	log.FromContext(r.Context()).InfoContext(r.Context(), "Exported to spreadsheet",
		log.FieldOperation, log.OpExport, log.FieldCount, n)
	resp.Status(http.StatusOK).
		TriggerSuccessNotification(fmt.Sprintf("Exported %d transactions", n)).
		Write(w)
}
