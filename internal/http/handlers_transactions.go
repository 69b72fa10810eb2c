package http

import (
	"errors"
	"net/http"
	"strings"

	"fintrack/internal/app"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
	"fintrack/internal/view"
)

// announceChange adds transactions:changed when the snapshot moved past before.
func (s *Server) announceChange(resp *HTMXResponseBuilder, before uint64) {
	if v := s.store.Version(); v != before {
		resp.TriggerTransactionsChanged(v, s.store.Len())
	}
}

// handleRefresh runs a List, on page load or on demand.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	before := s.store.Version()
	resp := NewHTMXResponse().Header("HX-Reswap", "none")
	s.metrics.refreshes.Add(1)
	if _, err := s.ctrl.Refresh(r.Context(), resp); err != nil {
		s.metrics.ledgerFailures.Add(1)
		resp.Status(http.StatusBadGateway).Write(w)
		return
	}
	s.announceChange(resp, before)
	resp.Status(http.StatusNoContent).Write(w)
}

// handleCreate accepts the modal form or an equivalent JSON body.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	parser := NewRequestBodyParser(w, r)
	nt, err := ParseNewTransaction(parser)
	if err != nil {
		s.metrics.validationErrors.Add(1)
		var fe FieldErrors
		if !errors.As(err, &fe) {
			BadRequestError("Malformed request").Write(w)
			return
		}
		resp := NewHTMXResponse().Status(http.StatusUnprocessableEntity)
		resp.TriggerErrorNotification(app.MsgSaveFailed)
		if parser.IsJSON() || wantsJSON(r) {
			resp.BodyJSON(map[string]any{"errors": fe}).Write(w)
			return
		}
		form := s.newFormData()
		form.Errors = fe
		body, err := s.execute("form_errors", form)
		if err != nil {
			s.templateError(w, r, "form_errors", err)
			return
		}
		resp.Header("Content-Type", "text/html; charset=utf-8").Body(body).Write(w)
		return
	}

	before := s.store.Version()
	resp := NewHTMXResponse()
	created, err := s.ctrl.Create(r.Context(), resp, nt)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, ledger.ErrRequestFailed) {
			status = http.StatusBadGateway
			s.metrics.ledgerFailures.Add(1)
		}
		resp.Status(status)
		if wantsJSON(r) || parser.IsJSON() {
			resp.BodyJSON(map[string]any{"error": app.MsgSaveFailed, "notifications": resp.Notifications()})
		} else {
			resp.Header("HX-Reswap", "none")
		}
		resp.Write(w)
		return
	}

	s.metrics.created.Add(1)
	s.announceChange(resp, before)
	resp.Status(http.StatusCreated)
	if wantsJSON(r) || parser.IsJSON() {
		resp.BodyJSON(map[string]any{"transaction": created, "notifications": resp.Notifications()})
	} else {
		resp.Header("HX-Reswap", "none")
	}
	resp.Write(w)
}

// handleDelete serves DELETE /transactions/{id} and POST /transactions/{id}/delete.
// The request must carry the user's confirmation.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	allowed := http.MethodDelete
	if strings.HasSuffix(r.URL.Path, "/delete") {
		allowed = http.MethodPost
	}
	if resp := RequireMethod(r, allowed); resp != nil {
		resp.Write(w)
		return
	}

	id, err := ParseID(r.PathValue("id"))
	if err != nil {
		BadRequestError("Invalid transaction id").Write(w)
		return
	}

	before := s.store.Version()
	resp := NewHTMXResponse().Header("HX-Reswap", "none")
	err = s.ctrl.Delete(r.Context(), resp, headerConfirmer{r: r}, id)
	switch {
	case errors.Is(err, app.ErrNotConfirmed):
		s.metrics.declinedDeletes.Add(1)
		resp.Status(http.StatusPreconditionRequired).Write(w)
		return
	case err != nil:
		s.metrics.ledgerFailures.Add(1)
		resp.Status(http.StatusBadGateway).Write(w)
		return
	}

	s.metrics.deleted.Add(1)
	log.FromContext(r.Context()).InfoContext(r.Context(), "Transaction removed", log.FieldTxID, id)
	s.announceChange(resp, before)
	resp.Status(http.StatusOK).Write(w)
}

// snapshotFiltered returns the current snapshot narrowed by the q parameter.
func (s *Server) snapshotFiltered(r *http.Request) []core.Transaction {
	txs, _ := s.store.Snapshot()
	return view.Filter(txs, searchTerm(r))
}
