// Package models defines the core domain models for splitit.
//
// # Stored Models
//
// The following models are persisted by the storage repository as JSON:
//   - Group: a fixed set of participants plus the expenses recorded for them
//   - Participant: a member of one group, identified by an ID unique within it
//   - Expense: one payment made by a participant, split equally over the group
//   - AppState: per-installation settings (current user, display currency)
//   - User: an API account used for authentication
//
// # Computed Models
//
// Transfer, NetBalance and GroupSummary are produced by the calculator package
// from a group snapshot. They are never stored and are recomputed on every query.
//
// # Design Principles
//
// 1. **Snapshots in, values out**: calculations receive a Group by value
// 2. **IDs over pointers**: expenses reference payers and groups by ID strings
// 3. **Exact money**: amounts are decimal.Decimal, never float64
package models
