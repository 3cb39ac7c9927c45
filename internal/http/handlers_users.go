package http

import (
	"net/http"
	"strconv"

	"finance/internal/core"
	"finance/internal/log"
)

// userFromPath resolves {userID}; on failure the error response is
// already written.
func (s *Server) userFromPath(w http.ResponseWriter, r *http.Request) (core.User, bool) {
	id, err := pathID(r, "userID")
	if err != nil {
		writeError(w, r, log.OpParse, err)
		return core.User{}, false
	}
	u, err := s.ledger.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return core.User{}, false
	}
	return u, true
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}

	id, err := s.ledger.CreateUser(r.Context(), core.User{
		Name:     sanitizeInput(req.Name),
		Email:    sanitizeInput(req.Email),
		Currency: sanitizeInput(req.Currency),
	})
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}

	u, err := s.ledger.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	log.FromContext(r.Context()).WithComponent(log.ComponentLedger).
		InfoContext(r.Context(), "User created", log.FieldUserID, id)

	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/users/"+strconv.FormatInt(id, 10)).
		Body(toUser(u)).
		Write(w)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.ledger.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(users, toUser))
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, ok := s.userFromPath(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toUser(u))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	months, err := parseMonths(r.URL.Query())
	if err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}

	d, err := s.dashboard(r.Context(), userID, months)
	if err != nil {
		writeError(w, r, log.OpReport, err)
		return
	}
	writeJSON(w, http.StatusOK, toDashboard(d))
}
