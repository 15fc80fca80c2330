package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/ScarletRegal/ui-deckbuilder/internal/ledger"
)

// mountLedger registers the verdict ledger endpoints.
//
//	GET /ledger/mine                    (session) -> []Entry
//	GET /ledger/top?date=&limit=        (public)  -> []Row
func (s *Server) mountLedger(r chi.Router) {
	r.With(s.requireSession).Get("/ledger/mine", func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Ledger == nil {
			writeJSON(w, []ledger.Entry{})
			return
		}
		entries, err := s.deps.Ledger.History(r.Context(), sessionID(r))
		if err != nil {
			log.Error().Err(err).Msg("ledger history")
			http.Error(w, `{"error":"db"}`, http.StatusInternalServerError)
			return
		}
		if entries == nil {
			entries = []ledger.Entry{}
		}
		writeJSON(w, entries)
	})

	r.Get("/ledger/top", func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Ledger == nil {
			writeJSON(w, []ledger.Row{})
			return
		}
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				http.Error(w, `{"error":"bad_limit"}`, http.StatusBadRequest)
				return
			}
			limit = n
		}
		rows, err := s.deps.Ledger.Top(r.Context(), r.URL.Query().Get("date"), limit)
		if err != nil {
			log.Error().Err(err).Msg("ledger top")
			http.Error(w, `{"error":"db"}`, http.StatusInternalServerError)
			return
		}
		if rows == nil {
			rows = []ledger.Row{}
		}
		writeJSON(w, rows)
	})
}
