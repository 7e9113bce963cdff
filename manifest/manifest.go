package manifest

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/byte4ever/tinysha/sha256hex"
)

const (
	// ChecksumAnnotation carries the payload digest of a
	// ConfigMap or Secret.
	ChecksumAnnotation = "checksum/sha256"
	// TemplateChecksumAnnotation carries the combined
	// digest of every config object a pod template
	// references.
	TemplateChecksumAnnotation = "checksum/sha256-config"

	kindConfigMap = "ConfigMap"
	kindSecret    = "Secret"
)

// payloadFields are the ConfigMap and Secret fields whose
// content is hashed.
var payloadFields = []string{"data", "binaryData", "stringData"}

// templatePaths maps workload kinds to the location of
// their pod template.
var templatePaths = map[schema.GroupVersionKind][]string{
	appsv1.SchemeGroupVersion.WithKind("Deployment"):  {"spec", "template"},
	appsv1.SchemeGroupVersion.WithKind("StatefulSet"): {"spec", "template"},
	appsv1.SchemeGroupVersion.WithKind("DaemonSet"):   {"spec", "template"},
	appsv1.SchemeGroupVersion.WithKind("ReplicaSet"):  {"spec", "template"},
	batchv1.SchemeGroupVersion.WithKind("Job"):        {"spec", "template"},
	batchv1.SchemeGroupVersion.WithKind("CronJob"): {
		"spec", "jobTemplate", "spec", "template",
	},
}

// configRef identifies a config object within a stream.
type configRef struct {
	kind      string
	namespace string
	name      string
}

func (cr configRef) String() string {
	return cr.kind + "/" + cr.name
}

// AnnotateChecksums reads multi-document YAML from in,
// annotates config objects and the workloads referencing
// them with digests rendered in order, validates each
// document, and writes the result to out.
func AnnotateChecksums(
	in io.Reader,
	out io.Writer,
	order sha256hex.ByteOrder,
) error {
	const errCtx = "annotating checksums"

	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf(
			"%s: reading input: %w", errCtx, err,
		)
	}

	docs, err := decodeAllDocs(raw)
	if err != nil {
		return fmt.Errorf(
			"%s: decoding yaml: %w", errCtx, err,
		)
	}

	objs := make([]*unstructured.Unstructured, 0, len(docs))

	for _, doc := range docs {
		obj := &unstructured.Unstructured{Object: doc}

		if obj.GetName() == "" {
			return fmt.Errorf(
				"%s: missing metadata.name in object %v",
				errCtx, doc,
			)
		}

		if obj.GetKind() == "" {
			return fmt.Errorf(
				"%s: missing kind in object %v",
				errCtx, doc,
			)
		}

		objs = append(objs, obj)
	}

	sums := make(map[configRef]string)

	for _, obj := range objs {
		if !isConfigObject(obj) {
			continue
		}

		digest, err := payloadChecksum(obj, order)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		if err := setAnnotation(
			obj.Object, ChecksumAnnotation, digest,
			"metadata", "annotations",
		); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		sums[configRef{
			kind:      obj.GetKind(),
			namespace: obj.GetNamespace(),
			name:      obj.GetName(),
		}] = digest

		slog.Debug(
			"annotated config object",
			"kind", obj.GetKind(),
			"name", obj.GetName(),
			"digest", digest,
		)
	}

	for _, obj := range objs {
		if err := annotateTemplate(obj, sums, order); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}
	}

	return writeAllDocs(out, objs)
}

func isConfigObject(obj *unstructured.Unstructured) bool {
	gvk := obj.GroupVersionKind()
	if gvk.GroupVersion() != corev1.SchemeGroupVersion {
		return false
	}

	return gvk.Kind == kindConfigMap || gvk.Kind == kindSecret
}

// payloadChecksum hashes the canonical JSON of the data
// fields. Map keys are sorted by the encoder, so the
// digest does not depend on YAML key order.
func payloadChecksum(
	obj *unstructured.Unstructured,
	order sha256hex.ByteOrder,
) (string, error) {
	payload := make(map[string]interface{}, len(payloadFields))

	for _, fi := range payloadFields {
		val, found, err := unstructured.NestedFieldNoCopy(
			obj.Object, fi,
		)
		if err != nil {
			return "", fmt.Errorf(
				"reading %s of %s: %w",
				fi, obj.GetName(), err,
			)
		}

		if found && val != nil {
			payload[fi] = val
		}
	}

	canon, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf(
			"encoding payload of %s: %w", obj.GetName(), err,
		)
	}

	return sha256hex.SumOrder(canon, order), nil
}

// annotateTemplate sets the combined config digest on the
// pod template of a workload. Workloads that reference no
// config object from the stream are left untouched.
func annotateTemplate(
	obj *unstructured.Unstructured,
	sums map[configRef]string,
	order sha256hex.ByteOrder,
) error {
	path, ok := templatePaths[obj.GroupVersionKind()]
	if !ok {
		return nil
	}

	tpl, found, err := unstructured.NestedFieldNoCopy(
		obj.Object, path...,
	)
	if err == nil && !found {
		return nil
	}

	tplMap, ok := tpl.(map[string]interface{})
	if err != nil || !ok {
		slog.Debug(
			"skipping workload with malformed pod template",
			"kind", obj.GetKind(),
			"name", obj.GetName(),
			"path", strings.Join(path, "."),
			"error", err,
		)

		return nil
	}

	podSpec, ok := tplMap["spec"].(map[string]interface{})
	if !ok {
		return nil
	}

	var lines []string

	for _, ref := range referencedConfigs(podSpec) {
		ref.namespace = obj.GetNamespace()

		if digest, ok := sums[ref]; ok {
			lines = append(lines, ref.String()+"="+digest)
		}
	}

	if len(lines) == 0 {
		return nil
	}

	sort.Strings(lines)

	combined := sha256hex.SumOrder(
		[]byte(strings.Join(lines, "\n")), order,
	)

	annPath := append(
		append([]string{}, path...),
		"metadata", "annotations",
	)

	if err := setAnnotation(
		obj.Object, TemplateChecksumAnnotation, combined,
		annPath...,
	); err != nil {
		return err
	}

	slog.Debug(
		"annotated pod template",
		"kind", obj.GetKind(),
		"name", obj.GetName(),
		"refs", len(lines),
	)

	return nil
}

// setAnnotation adds key=value to the string map at path,
// creating it if needed. Null values along path count as
// absent.
func setAnnotation(
	obj map[string]interface{},
	key string,
	value string,
	path ...string,
) error {
	dropNulls(obj, path...)

	ann, _, err := unstructured.NestedStringMap(obj, path...)
	if err != nil {
		return fmt.Errorf(
			"reading %s: %w", strings.Join(path, "."), err,
		)
	}

	if ann == nil {
		ann = make(map[string]string, 1)
	}

	ann[key] = value

	if err := unstructured.SetNestedStringMap(
		obj, ann, path...,
	); err != nil {
		return fmt.Errorf(
			"writing %s: %w", strings.Join(path, "."), err,
		)
	}

	return nil
}

// dropNulls removes the first null value found along path
// so that it can be recreated as a map. Templated
// manifests often render empty fields as "annotations:".
func dropNulls(obj map[string]interface{}, path ...string) {
	cur := obj

	for _, key := range path {
		val, present := cur[key]
		if !present {
			return
		}

		if val == nil {
			delete(cur, key)
			return
		}

		next, ok := val.(map[string]interface{})
		if !ok {
			return
		}

		cur = next
	}
}

// decodeAllDocs decodes all YAML documents from raw bytes
// into a slice of maps. Empty documents are skipped.
func decodeAllDocs(
	raw []byte,
) ([]map[string]interface{}, error) {
	const errCtx = "decoding all docs"

	decoder := yaml.NewDecoder(bytes.NewReader(raw))

	var docs []map[string]interface{}

	for {
		var doc map[string]interface{}

		err := decoder.Decode(&doc)
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		if doc == nil {
			continue
		}

		docs = append(docs, doc)
	}

	return docs, nil
}

func writeAllDocs(
	out io.Writer,
	objs []*unstructured.Unstructured,
) error {
	const errCtx = "writing docs"

	for idx, obj := range objs {
		buf, err := yaml.Marshal(obj.Object)
		if err != nil {
			return fmt.Errorf(
				"%s: marshaling object: %w",
				errCtx, err,
			)
		}

		if idx > 0 {
			if _, err := out.Write(
				[]byte("---\n"),
			); err != nil {
				return fmt.Errorf(
					"%s: writing separator: %w",
					errCtx, err,
				)
			}
		}

		if _, err := out.Write(buf); err != nil {
			return fmt.Errorf(
				"%s: writing output: %w",
				errCtx, err,
			)
		}
	}

	return nil
}
