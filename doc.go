// Package portfolio provides the functions and types for tracking an
// investment portfolio: cost basis, corporate actions and daily performance.
// It is designed to be local-first and auditable: every figure is replayed
// from an immutable transaction ledger, never stored.
//
// The core functionalities include:
//   - Ledger Management: Recording buys, sells, dividends, dividend
//     reinvestments and stock splits in an append-only, chronological record.
//   - Lot Matching: Replaying sales against open purchase lots under FIFO,
//     LIFO or HIFO, as a calculation parameter rather than stored state.
//   - Corporate Actions: Applying splits and reverse splits to open lots
//     while preserving invested amounts exactly, and dividend reinvestment
//     plans that convert cash dividends into new lots.
//   - Valuation and Performance: Daily metric series per security (market
//     value, realized and unrealized profit, daily and cumulative returns)
//     and their portfolio-level aggregation.
//   - Data Persistence: Encoding and decoding the ledger and the market
//     price database to human-readable, version-controllable JSONL.
//
// This package serves as the foundational logic for the `bnb` command-line
// tool, ensuring that all operations are consistent and based on a single
// source of truth.
package portfolio
