// Package cmd implements the command-line interface of serjs. It provides a
// small command tree for rendering documents, serving the HTTP API and
// measuring the serializer.
//
// The package is organized into several subpackages:
//
//   - encode: Render a tagged JSON or YAML document from a file or stdin
//   - serve: Start the HTTP API
//   - perf: Benchmark the serializer with built-in payloads
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set by an environment variable SERJS_<flag>
// (e.g. SERJS_LOG_LEVEL=debug), .env and .env.local files are loaded as well.
//
// See serjs -help for a list of all commands.
package cmd
