package http

import (
	"fmt"
	"net/http"

	"finance/internal/core"
	"finance/internal/log"
)

// created finishes a successful write: drops cached dashboards, logs the
// entry and replies 201 with its id.
func (s *Server) created(w http.ResponseWriter, r *http.Request, kind core.EntryKind, id, userID int64, amount core.Money) {
	s.invalidate()
	log.NewStructuredLogger(log.FromContext(r.Context())).
		LogEntryCreated(r.Context(), string(kind), id, userID, amount.String())
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	u, ok := s.userFromPath(w, r)
	if !ok {
		return
	}
	q, err := parseListQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	items, err := s.ledger.ListIncomes(r.Context(), u.ID, q)
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(items, func(in core.Income) incomeResponse { return toIncome(in, u.Currency) }))
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	u, ok := s.userFromPath(w, r)
	if !ok {
		return
	}
	var req createIncomeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	amount, err := parseAmount("amount", string(req.Amount), false)
	if err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	date, err := requiredDate(req.Date, s.cal.Today())
	if err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}

	id, err := s.ledger.AddIncome(r.Context(), core.Income{
		UserID:      u.ID,
		Type:        sanitizeInput(req.Type),
		Amount:      amount,
		Date:        date,
		Description: sanitizeInput(req.Description),
	})
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	s.created(w, r, core.KindIncome, id, u.ID, amount)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	u, ok := s.userFromPath(w, r)
	if !ok {
		return
	}
	q, err := parseListQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	items, err := s.ledger.ListExpenses(r.Context(), u.ID, q)
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(items, func(e core.Expense) expenseResponse { return toExpense(e, u.Currency) }))
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	u, ok := s.userFromPath(w, r)
	if !ok {
		return
	}
	var req createExpenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	amount, err := parseAmount("amount", string(req.Amount), false)
	if err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	date, err := requiredDate(req.Date, s.cal.Today())
	if err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}

	id, err := s.ledger.AddExpense(r.Context(), core.Expense{
		UserID:      u.ID,
		Category:    core.ExpenseCategory(sanitizeInput(req.Category)),
		Kind:        sanitizeInput(req.Kind),
		Amount:      amount,
		Date:        date,
		Description: sanitizeInput(req.Description),
	})
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	s.created(w, r, core.KindExpense, id, u.ID, amount)
}

func (s *Server) handleListDebts(w http.ResponseWriter, r *http.Request) {
	u, ok := s.userFromPath(w, r)
	if !ok {
		return
	}
	items, err := s.ledger.ListDebts(r.Context(), u.ID)
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(items, func(d core.Debt) debtResponse { return toDebt(d, u.Currency) }))
}

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request) {
	u, ok := s.userFromPath(w, r)
	if !ok {
		return
	}
	var req createDebtRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}

	d := core.Debt{UserID: u.ID, Name: sanitizeInput(req.Name), Type: sanitizeInput(req.Type)}
	var err error
	if d.InitialAmount, err = parseAmount("initial_amount", string(req.InitialAmount), false); err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	// The outstanding balance defaults to the initial amount.
	d.CurrentAmount = d.InitialAmount
	if string(req.CurrentAmount) != "" {
		if d.CurrentAmount, err = parseAmount("current_amount", string(req.CurrentAmount), false); err != nil {
			writeError(w, r, log.OpParse, err)
			return
		}
	}
	if d.InterestRate, err = parseRate(string(req.InterestRate)); err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	if d.StartDate, err = optionalDate(req.StartDate); err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	if d.DueDate, err = optionalDate(req.DueDate); err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}

	id, err := s.ledger.AddDebt(r.Context(), d)
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	s.created(w, r, core.KindDebt, id, u.ID, d.CurrentAmount)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	u, ok := s.userFromPath(w, r)
	if !ok {
		return
	}
	items, err := s.ledger.ListGoals(r.Context(), u.ID)
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	if r.URL.Query().Get("active") == "true" {
		items = core.ActiveGoals(items)
	}
	writeJSON(w, http.StatusOK, mapSlice(items, func(g core.Goal) goalResponse { return toGoal(g, u.Currency) }))
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	u, ok := s.userFromPath(w, r)
	if !ok {
		return
	}
	var req createGoalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}

	g := core.Goal{UserID: u.ID, Title: sanitizeInput(req.Title), Type: core.GoalType(sanitizeInput(req.Type))}
	var err error
	if g.CurrentAmount, err = parseAmount("current_amount", string(req.CurrentAmount), true); err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	if g.TargetAmount, err = parseAmount("target_amount", string(req.TargetAmount), false); err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	if g.TargetDate, err = optionalDate(req.TargetDate); err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}

	id, err := s.ledger.AddGoal(r.Context(), g)
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	s.created(w, r, core.KindGoal, id, u.ID, g.TargetAmount)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	u, ok := s.userFromPath(w, r)
	if !ok {
		return
	}
	items, err := s.ledger.ListNotifications(r.Context(), u.ID)
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	if r.URL.Query().Get("unread") == "true" {
		unread := items[:0:0]
		for _, n := range items {
			if !n.Read {
				unread = append(unread, n)
			}
		}
		items = unread
	}
	writeJSON(w, http.StatusOK, mapSlice(items, toNotification))
}

func (s *Server) handleCreateNotification(w http.ResponseWriter, r *http.Request) {
	u, ok := s.userFromPath(w, r)
	if !ok {
		return
	}
	var req createNotificationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	date, err := optionalDate(req.Date)
	if err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}

	id, err := s.ledger.AddNotification(r.Context(), core.Notification{
		UserID:  u.ID,
		Title:   sanitizeInput(req.Title),
		Message: sanitizeInput(req.Message),
		Date:    date,
	})
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	s.created(w, r, core.KindNotification, id, u.ID, core.Money{})
}

// handleDeleteEntry removes one entry once the client confirms with
// ?confirm=true; a missing id still answers 204.
func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	kind, err := core.ParseEntryKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	if r.URL.Query().Get("confirm") != "true" {
		writeError(w, r, log.OpDelete,
			fmt.Errorf("%w: repeat with ?confirm=true to delete %s %d", ErrConfirmationRequired, kind, id))
		return
	}
	if err := s.ledger.DeleteEntry(r.Context(), kind, id); err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	s.invalidate()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCompleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	if err := s.goals.Complete(r.Context(), id); err != nil {
		writeError(w, r, log.OpComplete, err)
		return
	}
	s.invalidate()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	if err := s.ledger.MarkNotificationRead(r.Context(), id); err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	s.invalidate()
	w.WriteHeader(http.StatusNoContent)
}
