// Copyright (c) 2025, EduForge Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package manifest

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
	appsv1 "k8s.io/api/apps/v1"
	autoscalingv2 "k8s.io/api/autoscaling/v2"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	storagev1 "k8s.io/api/storage/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	utilyaml "k8s.io/apimachinery/pkg/util/yaml"
	"k8s.io/client-go/kubernetes/scheme"

	apperrors "github.com/eduforge/lmsctl/pkg/errors"
)

// Set is a named, ordered group of resource documents applied as a unit.
// Document order follows file order; files within a directory are read in
// lexical name order.
type Set struct {
	Name    string
	Path    string
	Objects []runtime.Object
}

// Loader reads resource sets from disk and prepares them for apply.
type Loader struct {
	// Namespace is stamped onto namespaced documents that omit one.
	Namespace string
}

// NewLoader returns a Loader targeting the given namespace.
func NewLoader(namespace string) *Loader {
	return &Loader{Namespace: namespace}
}

// Load reads one resource set from path, which may be a single manifest file
// or a directory of them. A set with zero documents is an error: an apply
// that silently does nothing hides a broken layout.
func (l *Loader) Load(name, path string) (*Set, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeManifestInvalid,
			fmt.Sprintf("reading manifests for %s", name), err)
	}

	var files []string
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeManifestInvalid,
				fmt.Sprintf("listing manifest directory for %s", name), err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !isManifestFile(entry.Name()) {
				continue
			}
			files = append(files, filepath.Join(path, entry.Name()))
		}
	} else {
		files = []string{path}
	}

	set := &Set{Name: name, Path: path}
	for _, file := range files {
		objects, err := l.loadFile(file)
		if err != nil {
			return nil, err
		}
		set.Objects = append(set.Objects, objects...)
	}

	if len(set.Objects) == 0 {
		return nil, apperrors.Newf(apperrors.ErrCodeManifestInvalid,
			"no resource documents found for %s in %s", name, path)
	}

	slog.Debug("loaded resource set", "set", name, "path", path, "objects", len(set.Objects))
	return set, nil
}

// isManifestFile reports whether the file name carries a manifest extension.
func isManifestFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}

// loadFile decodes every document in one manifest file, preserving order.
func (l *Loader) loadFile(path string) ([]runtime.Object, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeManifestInvalid,
			fmt.Sprintf("opening manifest %s", path), err)
	}
	defer file.Close()

	var objects []runtime.Object
	reader := utilyaml.NewYAMLReader(bufio.NewReader(file))
	for index := 0; ; index++ {
		doc, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeManifestInvalid,
				fmt.Sprintf("reading manifest %s", path), err)
		}
		if len(bytes.TrimSpace(doc)) == 0 {
			continue
		}

		obj, err := l.decode(doc, path, index)
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

// decode turns one document into a typed API object and prepares it for the
// target namespace.
func (l *Loader) decode(doc []byte, path string, index int) (runtime.Object, error) {
	obj, gvk, err := scheme.Codecs.UniversalDeserializer().Decode(doc, nil, nil)
	if err != nil {
		if kind := documentKind(doc); kind != "" {
			return nil, apperrors.Wrap(apperrors.ErrCodeManifestInvalid,
				fmt.Sprintf("unsupported kind %q in %s", kind, path), err)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeManifestInvalid,
			fmt.Sprintf("undecodable document %d in %s", index, path), err)
	}

	if err := l.prepare(obj, gvk, path); err != nil {
		return nil, err
	}
	return obj, nil
}

// prepare enforces the supported-kind allowlist, stamps the run namespace
// onto namespaced objects, and lints workload images.
func (l *Loader) prepare(obj runtime.Object, gvk *schema.GroupVersionKind, path string) error {
	switch typed := obj.(type) {
	case *corev1.Namespace, *corev1.PersistentVolume, *storagev1.StorageClass:
		// cluster-scoped
	case *corev1.ConfigMap:
		l.defaultNamespace(&typed.ObjectMeta)
	case *corev1.Secret:
		l.defaultNamespace(&typed.ObjectMeta)
	case *corev1.PersistentVolumeClaim:
		l.defaultNamespace(&typed.ObjectMeta)
	case *corev1.Service:
		l.defaultNamespace(&typed.ObjectMeta)
	case *appsv1.Deployment:
		l.defaultNamespace(&typed.ObjectMeta)
		if err := lintPodImages(&typed.Spec.Template.Spec, typed.Name, path); err != nil {
			return err
		}
	case *autoscalingv2.HorizontalPodAutoscaler:
		l.defaultNamespace(&typed.ObjectMeta)
	case *networkingv1.Ingress:
		l.defaultNamespace(&typed.ObjectMeta)
	default:
		return apperrors.Newf(apperrors.ErrCodeManifestInvalid,
			"unsupported kind %q in %s", gvk.Kind, path)
	}
	return nil
}

// defaultNamespace stamps the run namespace when the document has none. A
// document naming a different namespace is applied as written; the mismatch
// is surfaced as a warning.
func (l *Loader) defaultNamespace(meta *metav1.ObjectMeta) {
	if meta.Namespace == "" {
		meta.Namespace = l.Namespace
		return
	}
	if meta.Namespace != l.Namespace {
		slog.Warn("manifest namespace differs from run namespace",
			"name", meta.Name,
			"manifest_namespace", meta.Namespace,
			"run_namespace", l.Namespace)
	}
}

// documentKind extracts the kind field from a raw document for error
// messages about kinds the scheme cannot decode.
func documentKind(doc []byte) string {
	var tm struct {
		Kind string `yaml:"kind"`
	}
	if err := yaml.Unmarshal(doc, &tm); err != nil {
		return ""
	}
	return tm.Kind
}
