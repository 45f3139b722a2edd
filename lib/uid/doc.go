// Package uid generates the session tokens used to namespace placeholder markers.
//
// A token is a fixed-length (32 character) lowercase hexadecimal string. It is created
// once per serializer instance, so markers emitted by different instances (or by nested
// calls of one instance) can never be confused with each other.
//
// Two random sources are provided:
//
//   - SecureSource: produces tokens from random (version 4) UUIDs generated by
//     github.com/google/uuid; the hyphens of the canonical UUID form are stripped.
//     This is the source used by the server-side entrypoint.
//
//   - BrowserSource: only supports filling a byte buffer from crypto/rand. Tokens are
//     built from 16 random bytes, each rendered as two hex digits. This mirrors the
//     fallback path of environments that do not offer a direct UUID primitive and is
//     used by the browser entrypoint.
//
// Any type implementing IRandomSource can be passed to Generate; if it also implements
// IUUIDSource the direct UUID form is preferred.
package uid
