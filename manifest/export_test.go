package manifest

// Exported aliases for testing internal functions from
// the manifest_test package.

// DecodeAllDocs exposes decodeAllDocs.
var DecodeAllDocs = decodeAllDocs

// ReferencedConfigNames returns referencedConfigs as
// "Kind/name" strings.
func ReferencedConfigNames(
	podSpec map[string]interface{},
) []string {
	var names []string
	for _, ref := range referencedConfigs(podSpec) {
		names = append(names, ref.String())
	}

	return names
}
