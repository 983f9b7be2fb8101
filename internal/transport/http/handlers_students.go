package httptransport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/messbill/internal/models"
)

type registerStudentRequest struct {
	StudentID numberField `json:"st_id"`
	Name      string      `json:"name"`
	Branch    string      `json:"abranch"`
	Phone     numberField `json:"phone"`
}

type studentLoginRequest struct {
	StudentID numberField `json:"st_id"`
	Phone     numberField `json:"phone"`
}

type studentLoginResponse struct {
	Message     string `json:"message"`
	StudentID   int64  `json:"student_id"`
	Name        string `json:"name"`
	AccessToken string `json:"access_token"`
}

type expenseHistoryItem struct {
	Month  string      `json:"month"`
	Amount json.Number `json:"amount"`
}

type studentExpenseResponse struct {
	StudentID      int64                `json:"student_id"`
	Name           string               `json:"name"`
	ExpenseHistory []expenseHistoryItem `json:"expense_history"`
}

func (h *Handler) handleRegisterStudent(w http.ResponseWriter, r *http.Request) {
	var req registerStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	id, err := req.StudentID.int64Value("st_id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	student := &models.Student{
		ID:     id,
		Name:   req.Name,
		Branch: req.Branch,
		Phone:  req.Phone.String(),
	}
	if err := h.students.RegisterStudent(r.Context(), student); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusCreated, "Student registered successfully")
}

func (h *Handler) handleStudentLogin(w http.ResponseWriter, r *http.Request) {
	var req studentLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.StudentID == "" || req.Phone == "" {
		h.writeError(w, r, invalidInput("Missing student ID or phone"))
		return
	}

	id, err := req.StudentID.int64Value("st_id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	student, token, err := h.students.Login(r.Context(), id, req.Phone.String())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, studentLoginResponse{
		Message:     "Login successful",
		StudentID:   student.ID,
		Name:        student.Name,
		AccessToken: token,
	})
}

func (h *Handler) handleStudentExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "studentID"), 10, 64)
	if err != nil || id <= 0 {
		writeMessage(w, http.StatusNotFound, "Student not found")
		return
	}

	student, history, err := h.students.ExpenseHistory(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	items := make([]expenseHistoryItem, 0, len(history))
	for _, entry := range history {
		items = append(items, expenseHistoryItem{
			Month:  entry.Month,
			Amount: amountJSON(entry.Amount),
		})
	}

	writeJSON(w, http.StatusOK, studentExpenseResponse{
		StudentID:      student.ID,
		Name:           student.Name,
		ExpenseHistory: items,
	})
}
