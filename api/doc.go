/*
Package api exposes the serializer over HTTP.

Routes:

	POST /serialize   render a tagged JSON or YAML document (see package tagged) as JavaScript
	GET  /metrics     metrics in the Prometheus text format
	GET  /healthz     liveness probe

The options of POST /serialize are given as query parameters: space (a number of
spaces or an indentation string), unsafe, isJSON, ignoreFunction (booleans) and
format (json or yaml). Parameters that are not given fall back to the server defaults.

Status codes: 200 with the JavaScript on success, 400 for invalid parameters or
documents, 413 if the body exceeds the configured limit and 422 if the document
can't be rendered (e.g. it contains a cycle).
*/
package api
