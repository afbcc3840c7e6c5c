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
	"fmt"
	"strings"

	"github.com/distribution/reference"
	corev1 "k8s.io/api/core/v1"

	apperrors "github.com/eduforge/lmsctl/pkg/errors"
)

// ValidateImage checks that image parses as a normalized container image
// reference, e.g. "ghcr.io/eduforge/lms:1.4.2" or "postgres:16". A broken
// reference would only fail at pod scheduling time, long after the apply
// succeeded.
func ValidateImage(image string) error {
	if strings.TrimSpace(image) == "" {
		return apperrors.New(apperrors.ErrCodeManifestInvalid, "empty image reference")
	}
	if _, err := reference.ParseNormalizedNamed(image); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeManifestInvalid,
			fmt.Sprintf("invalid image reference %q", image), err)
	}
	return nil
}

// lintPodImages validates every container image in the pod template,
// init containers included.
func lintPodImages(spec *corev1.PodSpec, workload, path string) error {
	containers := make([]corev1.Container, 0, len(spec.InitContainers)+len(spec.Containers))
	containers = append(containers, spec.InitContainers...)
	containers = append(containers, spec.Containers...)

	for _, container := range containers {
		if err := ValidateImage(container.Image); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeManifestInvalid,
				fmt.Sprintf("container %s in workload %s (%s)", container.Name, workload, path), err)
		}
	}
	return nil
}
