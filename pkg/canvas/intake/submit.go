package intake

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"collectivecanvas/pkg/canvas/i18n"
	"collectivecanvas/pkg/canvas/submission"
	"collectivecanvas/pkg/engine/geom"
)

// Status values of a Result.
const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusCooldown = "cooldown"
)

// ClientMessage is what the join page sends over the socket.
type ClientMessage struct {
	Type  string `json:"type"`
	Word  string `json:"word"`
	Color string `json:"color"`
}

// Result is the server's answer to one submission.
type Result struct {
	Type      string `json:"type"`
	Status    string `json:"status"`
	Message   string `json:"message"`
	Remaining int    `json:"remaining,omitempty"`

	code int
}

func failure(key string, code int) Result {
	return Result{Type: "status", Status: StatusError, Message: i18n.T(key), code: code}
}

// Accept validates and rate-limits one submission from participant, stores
// it and hands it to the sink.
func (s *Server) Accept(ctx context.Context, participant, word, hexColor string) Result {
	now := s.now()
	sub, err := submission.New(s.cfg.CanvasID, word, hexColor, now)
	switch {
	case errors.Is(err, submission.ErrNoColor), errors.Is(err, geom.ErrBadColor):
		return failure("SUBMIT_NO_COLOR", http.StatusBadRequest)
	case errors.Is(err, submission.ErrEmptyToken):
		return failure("SUBMIT_EMPTY", http.StatusBadRequest)
	case errors.Is(err, submission.ErrTokenTooLong):
		return failure("SUBMIT_TOO_LONG", http.StatusBadRequest)
	case errors.Is(err, submission.ErrBlockedToken):
		return failure("SUBMIT_BLOCKED", http.StatusBadRequest)
	case err != nil:
		s.log.Errorf("SUBMIT: %v", err)
		return failure("SUBMIT_FAILED", http.StatusInternalServerError)
	}

	if left, err := s.cooldown.Allow(participant, now); err != nil {
		return Result{
			Type:      "status",
			Status:    StatusCooldown,
			Message:   i18n.T("SUBMIT_COOLDOWN", left),
			Remaining: left,
			code:      http.StatusTooManyRequests,
		}
	}

	if err := s.store.Append(ctx, sub); err != nil {
		s.cooldown.Cancel(participant, now)
		s.log.Errorf("SUBMIT: storing %s: %v", sub.ID, err)
		return failure("SUBMIT_FAILED", http.StatusInternalServerError)
	}
	s.sink.Submit(sub)
	s.log.Debugf("SUBMIT: %q in %s from %s", sub.Token, sub.Color.Hex(), participant)
	return Result{
		Type:      "status",
		Status:    StatusSuccess,
		Message:   i18n.T("SUBMIT_SUCCESS"),
		Remaining: int(s.cfg.Cooldown.Seconds()),
		code:      http.StatusOK,
	}
}

const participantCookieName = "canvas_participant"

func participantID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(participantCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     participantCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (s *Server) serveSubmit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	participant := participantID(w, r)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	securityHeaders(w)

	var msg ClientMessage
	r.Body = http.MaxBytesReader(w, r.Body, 4096)
	res := failure("SUBMIT_BAD_REQUEST", http.StatusBadRequest)
	if err := json.NewDecoder(r.Body).Decode(&msg); err == nil {
		res = s.Accept(r.Context(), participant, msg.Word, msg.Color)
	}

	w.WriteHeader(res.code)
	_ = json.NewEncoder(w).Encode(res)
	s.log.Debugf("SERVE: Submission %s to %s", res.Status, realIP(r))
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	participant := participantID(w, r)

	var hdr http.Header
	if c := w.Header().Values("Set-Cookie"); len(c) > 0 {
		hdr = http.Header{"Set-Cookie": c}
	}
	conn, err := upgrader.Upgrade(w, r, hdr)
	if err != nil {
		s.log.Debugf("SERVE: upgrade error from %s: %v", realIP(r), err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(4096)
	s.log.Debugf("SERVE: Participant %s connected from %s", participant, realIP(r))

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.Type != "submit" {
			continue
		}
		if err := conn.WriteJSON(s.Accept(r.Context(), participant, msg.Word, msg.Color)); err != nil {
			return
		}
	}
}
