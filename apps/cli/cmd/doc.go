// Package cmd implements the kuiper CLI commands using Cobra.
//
// Available commands:
//   - kuiper <request.kuiper>: Send a single request (the default command)
//   - search: Find request files under a directory
//   - validate: Check request and overlay files against their schemas
//   - headers: Show the merged header set and where each value came from
//   - bench: Send a request repeatedly and report latency percentiles
//   - history: Show recently sent requests
//   - init: Create a new kuiper workspace with example files
//   - version: Show kuiper version information
//
// The default command supports watch mode, dry runs, gjson response
// queries, and console or JSON output.
package cmd
