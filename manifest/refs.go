package manifest

// referencedConfigs lists the ConfigMaps and Secrets a pod
// spec mounts or reads environment from. Namespaces are
// left empty for the caller to fill.
func referencedConfigs(
	podSpec map[string]interface{},
) []configRef {
	seen := make(map[configRef]struct{})

	var refs []configRef

	add := func(kind string, name string) {
		if name == "" {
			return
		}

		ref := configRef{kind: kind, name: name}
		if _, dup := seen[ref]; dup {
			return
		}

		seen[ref] = struct{}{}
		refs = append(refs, ref)
	}

	for _, vol := range mapsAt(podSpec, "volumes") {
		add(kindConfigMap, stringAt(vol, "configMap", "name"))
		add(kindSecret, stringAt(vol, "secret", "secretName"))

		projected, _ := vol["projected"].(map[string]interface{})
		for _, src := range mapsAt(projected, "sources") {
			add(kindConfigMap, stringAt(src, "configMap", "name"))
			add(kindSecret, stringAt(src, "secret", "name"))
		}
	}

	for _, list := range []string{"initContainers", "containers"} {
		for _, ctr := range mapsAt(podSpec, list) {
			for _, ef := range mapsAt(ctr, "envFrom") {
				add(kindConfigMap, stringAt(ef, "configMapRef", "name"))
				add(kindSecret, stringAt(ef, "secretRef", "name"))
			}

			for _, ev := range mapsAt(ctr, "env") {
				add(kindConfigMap, stringAt(
					ev, "valueFrom", "configMapKeyRef", "name",
				))
				add(kindSecret, stringAt(
					ev, "valueFrom", "secretKeyRef", "name",
				))
			}
		}
	}

	return refs
}

// mapsAt returns the map elements of the list stored
// under key. Non-map elements are skipped.
func mapsAt(
	obj map[string]interface{},
	key string,
) []map[string]interface{} {
	list, ok := obj[key].([]interface{})
	if !ok {
		return nil
	}

	out := make([]map[string]interface{}, 0, len(list))

	for idx := range list {
		if item, ok := list[idx].(map[string]interface{}); ok {
			out = append(out, item)
		}
	}

	return out
}

// stringAt walks nested maps along path and returns the
// string found there, or "".
func stringAt(
	obj map[string]interface{},
	path ...string,
) string {
	cur := obj

	for idx, key := range path {
		if idx == len(path)-1 {
			val, _ := cur[key].(string)
			return val
		}

		next, ok := cur[key].(map[string]interface{})
		if !ok {
			return ""
		}

		cur = next
	}

	return ""
}
