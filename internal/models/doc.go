// Package models defines the core domain models for messbill.
//
// # Models
//
//   - Student: a registered mess member, identified by a client-supplied numeric ID
//   - Attendance: days a student was present in the mess for one month
//   - ExpensePeriod: one registered monthly bill (total expense for a month)
//   - StudentExpenseShare: a student's computed portion of an ExpensePeriod
//   - Admin: an operator allowed to record attendance and register bills
//
// # Design Principles
//
// 1. **Append-only billing**: ExpensePeriod and StudentExpenseShare rows are written once
// by the bill allocator and never updated
// 2. **Exact money**: amounts are decimal.Decimal, never float64
// 3. **Avoid circular references**: relationships use IDs instead of pointers
//
// Month labels are free-form strings ("2025-01", "January"). They are compared and
// sorted as plain strings.
package models
