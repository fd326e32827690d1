// Package harness runs end-to-end pipeline scenarios.
//
// A scenario is a YAML file carrying both CSV sources inline, an optional
// expected failure stage, and assertions over the persisted table:
//
//	name: sentinel_rows_dropped
//	description: rows with related-2 never reach the database
//	messages: |
//	  id,message,original,genre
//	  1,Help needed,,direct
//	categories: |
//	  id,categories
//	  1,related-2;request-0
//	assertions:
//	  - type: row_count
//	    count: 0
//
// Each scenario runs against a fresh temporary directory with a fixed run
// id, so results and golden snapshots are reproducible.
package harness
