package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/mmynk/messbill/internal/models"
)

type attendanceRequest struct {
	StudentID   numberField `json:"student_id"`
	Month       string      `json:"month"`
	DaysPresent numberField `json:"days_present"`
}

type billRegisterRequest struct {
	Month          string      `json:"month"`
	TotalMonthDays numberField `json:"total_month_day"`
	TotalExpense   numberField `json:"total_expense"`
}

type shareItem struct {
	StudentID   int64       `json:"student_id"`
	DaysPresent int         `json:"days_present"`
	Amount      json.Number `json:"amount"`
}

type billRegisterResponse struct {
	Message   string      `json:"message"`
	ExpenseID string      `json:"expense_id"`
	Shares    []shareItem `json:"shares"`
}

type periodShareItem struct {
	StudentID int64       `json:"student_id"`
	Amount    json.Number `json:"amount"`
}

type periodItem struct {
	ExpenseID      string            `json:"expense_id"`
	Month          string            `json:"month"`
	TotalExpense   json.Number       `json:"total_expense"`
	TotalMonthDays json.Number       `json:"total_month_day"`
	Shares         []periodShareItem `json:"shares"`
}

type periodsResponse struct {
	Periods []periodItem `json:"periods"`
}

func (h *Handler) handleRecordAttendance(w http.ResponseWriter, r *http.Request) {
	var req attendanceRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	studentID, err := req.StudentID.int64Value("student_id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	days, err := req.DaysPresent.intValue("days_present")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	err = h.students.RecordAttendance(r.Context(), models.Attendance{
		StudentID:   studentID,
		Month:       req.Month,
		DaysPresent: days,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Attendance recorded successfully")
}

func (h *Handler) handleBillRegister(w http.ResponseWriter, r *http.Request) {
	var req billRegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.billing.RegisterBill(r.Context(), req.Month, req.TotalMonthDays.String(), req.TotalExpense.String())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	shares := make([]shareItem, 0, len(result.Shares))
	for _, s := range result.Shares {
		shares = append(shares, shareItem{
			StudentID:   s.StudentID,
			DaysPresent: s.DaysPresent,
			Amount:      amountJSON(s.Amount),
		})
	}

	writeJSON(w, http.StatusOK, billRegisterResponse{
		Message:   "Monthly bill and student expenses calculated and saved",
		ExpenseID: result.Period.ID,
		Shares:    shares,
	})
}

func (h *Handler) handleListPeriods(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.billing.ListPeriods(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	periods := make([]periodItem, 0, len(summaries))
	for _, sum := range summaries {
		shares := make([]periodShareItem, 0, len(sum.Shares))
		for _, s := range sum.Shares {
			shares = append(shares, periodShareItem{
				StudentID: s.StudentID,
				Amount:    amountJSON(s.Amount),
			})
		}
		periods = append(periods, periodItem{
			ExpenseID:      sum.Period.ID,
			Month:          sum.Period.Month,
			TotalExpense:   amountJSON(sum.Period.TotalExpense),
			TotalMonthDays: amountJSON(sum.Period.TotalMonthDays),
			Shares:         shares,
		})
	}

	writeJSON(w, http.StatusOK, periodsResponse{Periods: periods})
}
