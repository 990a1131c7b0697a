// Package models defines the stored records of the ledger service.
//
// # Records
//
//   - User: a person who can pay for or share expenses
//   - Group: a named set of users that share expenses together
//   - Expense: an amount paid by one user, with the per-user Splits computed
//     when the expense was created
//
// # Design Principles
//
//  1. Amounts are money.Money (integer cents), never floats.
//  2. Relationships are ID strings, not pointers, to avoid cycles.
//  3. Splits are stored in the order they were allocated; that order decided
//     which participant absorbed the rounding remainder.
//  4. Balances and settlements are derived on every read and are not stored.
package models
