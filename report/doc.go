// Package report renders digest records as text lines, JSON or YAML. Text
// lines are produced from a single-brace {VAR} line format whose variables
// come from the record and from Bazel workspace status files.
package report
