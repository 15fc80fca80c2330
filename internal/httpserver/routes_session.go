package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/ScarletRegal/ui-deckbuilder/internal/game"
	"github.com/ScarletRegal/ui-deckbuilder/internal/session"
)

// mountSession registers session creation and the per-intent endpoints.
//
//	POST /session                   {mode}             -> {token, sessionId, dailyDate, state}
//	GET  /session                                      -> {sessionId, dailyDate, state}
//	POST /session/home                                 -> state
//	POST /session/tutorial-choice                      -> state
//	POST /session/tutorial/dismiss                     -> state
//	POST /session/tutorial/hint                        -> state
//	POST /session/encounter         {encounterIndex}   -> state
//	POST /session/play              {cardId}           -> state
//	POST /session/end-turn                             -> state
//	POST /session/rewards           {cardIds}          -> state
func (s *Server) mountSession(r chi.Router) {
	r.Post("/session", s.handleCreate)

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get("/session", s.handleGet)

		r.Post("/session/home", s.intent(game.ActionShowHome, false))
		r.Post("/session/tutorial-choice", s.intent(game.ActionShowTutorialChoice, false))
		r.Post("/session/tutorial/dismiss", s.intent(game.ActionDismissTutorial, false))
		r.Post("/session/tutorial/hint", s.intent(game.ActionShowTutorialHint, false))
		r.Post("/session/encounter", s.intent(game.ActionStartEncounter, true))
		r.Post("/session/play", s.intent(game.ActionPlayCard, true))
		r.Post("/session/end-turn", s.intent(game.ActionEndTurn, false))
		r.Post("/session/rewards", s.intent(game.ActionSelectRewards, true))
	})
}

type createReq struct {
	Mode session.Mode `json:"mode"`
}

type sessionResp struct {
	Token     string     `json:"token,omitempty"`
	SessionID string     `json:"sessionId"`
	DailyDate string     `json:"dailyDate,omitempty"`
	State     game.State `json:"state"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
			return
		}
	}
	switch req.Mode {
	case "":
		req.Mode = session.ModeNormal
	case session.ModeNormal, session.ModeDaily:
	default:
		http.Error(w, `{"error":"bad_mode"}`, http.StatusBadRequest)
		return
	}

	rec, err := s.deps.Sessions.Create(r.Context(), req.Mode)
	if err != nil {
		writeError(w, err)
		return
	}
	tok, exp, err := s.signToken(rec.ID)
	if err != nil {
		log.Error().Err(err).Msg("sign token")
		http.Error(w, `{"error":"token"}`, http.StatusInternalServerError)
		return
	}
	setSessionCookie(w, tok, exp)

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, sessionResp{Token: tok, SessionID: rec.ID, DailyDate: rec.DailyDate, State: rec.State})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.deps.Sessions.Get(r.Context(), sessionID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, sessionResp{SessionID: rec.ID, DailyDate: rec.DailyDate, State: rec.State})
}

// intent returns a handler that dispatches one action type. When withBody is
// set the request body supplies the action's parameters.
func (s *Server) intent(t game.ActionType, withBody bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var a game.Action
		if withBody {
			if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
				http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
				return
			}
		}
		a.Type = t
		a.Verdict = nil

		st, err := s.deps.Sessions.Dispatch(r.Context(), sessionID(r), a)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, st)
	}
}
