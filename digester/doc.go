// Package digester calculates and verifies SHA-256 file digests. Digests are
// stored in companion .digest files alongside the original so callers can
// skip work when content is unchanged, and can be rendered as "sha256:<hex>"
// blob references for content-addressed stores.
package digester
