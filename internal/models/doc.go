// Package models defines the core domain models for Splitledger.
//
// # Current Models
//
//   - Balance: a directional, netted monetary obligation between two
//     group members ("A owes B 50 in group G")
//   - Expense: the originating record of a purchase that was split
//   - Notification: an overdue-debt reminder with a shown/unshown lifecycle
//   - User: a group member carrying loyalty fields
//   - Group: a set of members that share expenses
//
// # Design Principles
//
//  1. **One unsettled balance per direction**: for a (debtor, creditor,
//     group) triple at most one unsettled balance exists, and it is
//     mutually exclusive with the reverse direction. Opposing
//     obligations are netted at write time.
//  2. **Confirmation locks a balance**: once either party confirms, the
//     balance can no longer be merged or netted; new activity opens a
//     fresh balance instead. See ConfirmationState.
//  3. **Avoid circular references**: models reference each other by ID
//     string, never by pointer.
package models
