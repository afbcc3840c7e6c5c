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

// Package version parses and compares dotted release numbers, including the
// decorated forms Kubernetes API servers report (e.g. "v1.29.3-eks-5e0fdde").
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Error types for version parsing failures.
var (
	ErrEmptyVersion      = errors.New("version string is empty")
	ErrTooManyComponents = errors.New("version has more than 3 components")
	ErrNonNumeric        = errors.New("version component is not numeric")
	ErrNegativeComponent = errors.New("version component cannot be negative")
)

// Version is a dotted release number with up to three significant
// components. Build decorations after the numeric part ("-eks-5e0fdde",
// "+k3s1") are preserved in Extras but never participate in comparisons.
// Precision records how many components were present in the source string;
// comparisons only go as deep as both operands specify.
type Version struct {
	Major int `json:"major,omitempty" yaml:"major,omitempty"`
	Minor int `json:"minor,omitempty" yaml:"minor,omitempty"`
	Patch int `json:"patch,omitempty" yaml:"patch,omitempty"`

	// Precision indicates how many components are significant (1, 2, or 3)
	Precision int `json:"precision,omitempty" yaml:"precision,omitempty"`

	// Extras stores the build decoration, including its leading '-' or '+'
	Extras string `json:"extras,omitempty" yaml:"extras,omitempty"`
}

// New creates a fully specified Version (precision 3).
func New(major, minor, patch int) Version {
	return Version{
		Major:     major,
		Minor:     minor,
		Patch:     patch,
		Precision: 3,
	}
}

// String renders the significant components, without Extras.
func (v Version) String() string {
	switch v.Precision {
	case 1:
		return strconv.Itoa(v.Major)
	case 2:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	default:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
}

// Parse parses a version string into a Version.
// Supported formats: "1", "1.23", "1.23.4", "v1.23.4", "1.23.4-suffix",
// "1.23.4+metadata". The "v" prefix is optional. Anything after the first
// '-' or '+' that follows a digit lands in Extras.
func Parse(s string) (Version, error) {
	if s == "" {
		return Version{}, ErrEmptyVersion
	}
	s = strings.TrimPrefix(s, "v")

	main, extras := splitExtras(s)

	parts := strings.Split(main, ".")
	if len(parts) > 3 {
		return Version{}, ErrTooManyComponents
	}

	v := Version{Extras: extras, Precision: len(parts)}
	for i, part := range parts {
		if part == "" {
			return Version{}, fmt.Errorf("%w: empty component", ErrNonNumeric)
		}
		num, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, part)
		}
		if num < 0 {
			return Version{}, fmt.Errorf("%w: %d", ErrNegativeComponent, num)
		}
		switch i {
		case 0:
			v.Major = num
		case 1:
			v.Minor = num
		case 2:
			v.Patch = num
		}
	}
	return v, nil
}

// splitExtras cuts s at the first '-' or '+' that directly follows a digit,
// so "1.28.0-gke.1337000" splits cleanly while a stray leading dash does not.
func splitExtras(s string) (main, extras string) {
	for i := 1; i < len(s); i++ {
		if (s[i] == '-' || s[i] == '+') && s[i-1] >= '0' && s[i-1] <= '9' {
			return s[:i], s[i:]
		}
	}
	return s, ""
}

// MustParse parses a version string and panics if parsing fails. Only use
// this for hardcoded strings or in tests; for runtime data use Parse and
// handle the error.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("version.MustParse: %v", err))
	}
	return v
}

// Compare returns -1 if v < other, 0 if v == other, 1 if v > other.
// The comparison stops at the shallower of the two precisions, so
// MustParse("1.23").Compare(MustParse("1.23.9")) is 0.
func (v Version) Compare(other Version) int {
	depth := v.Precision
	if other.Precision < depth {
		depth = other.Precision
	}

	pairs := [3][2]int{
		{v.Major, other.Major},
		{v.Minor, other.Minor},
		{v.Patch, other.Patch},
	}
	for i := 0; i < depth; i++ {
		if pairs[i][0] < pairs[i][1] {
			return -1
		}
		if pairs[i][0] > pairs[i][1] {
			return 1
		}
	}
	return 0
}

// EqualsOrNewer reports whether v is equal to or newer than other.
func (v Version) EqualsOrNewer(other Version) bool {
	return v.Compare(other) >= 0
}

// IsNewer reports whether v is strictly newer than other.
func (v Version) IsNewer(other Version) bool {
	return v.Compare(other) > 0
}

// IsValid reports whether all components are non-negative and the precision
// is 1, 2, or 3.
func (v Version) IsValid() bool {
	if v.Major < 0 || v.Minor < 0 || v.Patch < 0 {
		return false
	}
	return v.Precision >= 1 && v.Precision <= 3
}
