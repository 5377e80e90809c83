// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package fileconverter

import (
	"fmt"
	"sort"
)

// Registry is the single source of truth for which extensions belong to which
// category and which converter produces each output format. The classifier and
// the dispatcher both read from it.
type Registry struct {
	converters map[Category]Converter
	extensions map[string]Category
	outputs    map[string]Converter
}

// NewRegistry builds a registry from the category extension sets and one
// converter per category. It fails if the sets overlap, if two converters share
// a category, or if a converter accepts an input its category does not claim.
func NewRegistry(sets map[Category][]string, converters ...Converter) (*Registry, error) {
	extensions, err := extensionIndex(sets)
	if err != nil {
		return nil, err
	}

	r := &Registry{
		converters: make(map[Category]Converter),
		extensions: extensions,
	}
	for _, c := range converters {
		if err := r.add(c); err != nil {
			return nil, err
		}
	}
	r.buildDispatch()
	return r, nil
}

func (r *Registry) add(c Converter) error {
	cat := c.Category()
	if cat == CategoryUnknown {
		return fmt.Errorf("converter %q has no category", c.Name())
	}
	if prev, ok := r.converters[cat]; ok && prev.Name() != c.Name() {
		return fmt.Errorf("converters %q and %q both handle %s", prev.Name(), c.Name(), cat)
	}
	for _, ext := range c.SupportedInputs() {
		if got := r.extensions[ext]; got != cat {
			return fmt.Errorf("converter %q accepts %q, which is classified as %s", c.Name(), ext, got)
		}
	}
	r.converters[cat] = c
	return nil
}

// Replace swaps the converter registered for c's category and rebuilds the
// dispatch table. On error the registry is left unchanged.
func (r *Registry) Replace(c Converter) error {
	cat := c.Category()
	prev, had := r.converters[cat]
	delete(r.converters, cat)
	if err := r.add(c); err != nil {
		if had {
			r.converters[cat] = prev
		}
		return err
	}
	r.buildDispatch()
	return nil
}

// buildDispatch maps every output format to exactly one converter. A format
// produced by several converters goes to the one whose category claims the
// extension; otherwise the first in Categories order wins.
func (r *Registry) buildDispatch() {
	r.outputs = make(map[string]Converter)
	for _, cat := range Categories {
		c, ok := r.converters[cat]
		if !ok {
			continue
		}
		for _, ext := range c.SupportedOutputs() {
			owner, claimed := r.extensions[ext]
			if claimed {
				if owner == cat {
					r.outputs[ext] = c
				} else if _, ownerRegistered := r.converters[owner]; !ownerRegistered {
					if _, taken := r.outputs[ext]; !taken {
						r.outputs[ext] = c
					}
				}
				continue
			}
			if _, taken := r.outputs[ext]; !taken {
				r.outputs[ext] = c
			}
		}
	}
}

// SelectConverter returns the converter that produces outputFormat.
func (r *Registry) SelectConverter(outputFormat string) (Converter, bool) {
	c, ok := r.outputs[NormalizeFormat(outputFormat)]
	return c, ok
}

// ConverterFor returns the converter registered for a category.
func (r *Registry) ConverterFor(cat Category) (Converter, bool) {
	c, ok := r.converters[cat]
	return c, ok
}

// Classify returns the category of path.
func (r *Registry) Classify(path string) Category {
	return classifyWith(r.extensions, path)
}

// OutputFormats returns every dispatchable output format, sorted.
func (r *Registry) OutputFormats() []string {
	out := make([]string, 0, len(r.outputs))
	for ext := range r.outputs {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// OutputFormatsByCategory groups the dispatchable formats by the category of
// the converter that produces them.
func (r *Registry) OutputFormatsByCategory() map[Category][]string {
	grouped := make(map[Category][]string)
	for _, ext := range r.OutputFormats() {
		cat := r.outputs[ext].Category()
		grouped[cat] = append(grouped[cat], ext)
	}
	return grouped
}
