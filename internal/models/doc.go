// Package models defines the core domain models for the receipt points
// service.
//
// # Models
//
//   - Receipt: A submitted purchase receipt with its computed points
//   - Item: A single line entry on a receipt
//
// # Design Principles
//
// 1. **Score once**: Points are computed when a receipt is submitted and are
// immutable afterwards; there is no recomputation path
// 2. **Exact money**: Monetary values use decimal arithmetic, never binary
// floats, so boundary totals like 0.30 classify correctly
// 3. **Strict ownership**: Items belong to exactly one receipt and carry no
// back-references; identical items on different receipts are distinct rows
package models
