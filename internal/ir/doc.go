// Package ir provides the in-memory table representation shared by the
// loader, cleaner, and store packages.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Cells are sealed Values: Null, Int, String. NO floats.
//   - Column kinds are fixed per column (KindInt or KindText)
//   - Tables are values: stages return new tables, never mutate inputs
//   - Row identity is a domain-separated SHA-256 over canonical JSON
package ir
