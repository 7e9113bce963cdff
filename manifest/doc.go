// Package manifest annotates Kubernetes manifests with SHA-256 checksums of
// their configuration. ConfigMap and Secret objects receive the digest of
// their payload, and workloads whose pod templates reference them receive a
// combined digest so that a configuration change rolls the pods. It handles
// both single-document and multi-document YAML streams separated by "---"
// markers.
package manifest
