// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

// PartCategory enumerates the auxiliary package parts that are deferred
// until first touch (§4.2), keeping the eager-open path limited to
// workbook.xml, the worksheets, styles.xml, and sharedStrings.xml.
type PartCategory int

const (
	CategoryComments PartCategory = iota
	CategoryVML
	CategoryDrawings
	CategoryDrawingRels
	CategoryCharts
	CategoryImages
	CategoryDocProperties
	CategoryPivotTables
	CategoryPivotCaches
	CategoryTables
	CategorySlicers
	CategorySlicerCaches
	CategoryThreadedComments
	CategoryPersonList
	CategoryVba
)

// rawPart is one package part kept as opaque bytes until hydrated.
type rawPart struct {
	path string
	data []byte
}

// PartIndex holds every package part not among the eager-open set, indexed
// by category then by part path, tracking hydrated/dirty state per §4.2's
// insert/take/remove_path/mark_dirty/remaining_parts contract.
type PartIndex struct {
	byCategory map[PartCategory]map[string]*rawPart
	hydrated   map[PartCategory]bool
	dirty      map[PartCategory]bool
}

func newPartIndex() *PartIndex {
	return &PartIndex{
		byCategory: map[PartCategory]map[string]*rawPart{},
		hydrated:   map[PartCategory]bool{},
		dirty:      map[PartCategory]bool{},
	}
}

// insert stores path's raw bytes under category, leaving hydrated/dirty
// state untouched (used while loading a package: parts start un-hydrated).
func (p *PartIndex) insert(cat PartCategory, path string, data []byte) {
	m, ok := p.byCategory[cat]
	if !ok {
		m = map[string]*rawPart{}
		p.byCategory[cat] = m
	}
	m[path] = &rawPart{path: path, data: data}
}

// take removes and returns the raw bytes for path, or (nil, false) if
// absent. Used when a category is hydrated: each raw part is consumed
// exactly once into its typed in-memory form.
func (p *PartIndex) take(cat PartCategory, path string) ([]byte, bool) {
	m, ok := p.byCategory[cat]
	if !ok {
		return nil, false
	}
	rp, ok := m[path]
	if !ok {
		return nil, false
	}
	delete(m, path)
	return rp.data, true
}

// removePath deletes a raw part without returning it, e.g. when a sheet or
// drawing is deleted and its rels-adjacent parts must not survive to save.
func (p *PartIndex) removePath(cat PartCategory, path string) {
	if m, ok := p.byCategory[cat]; ok {
		delete(m, path)
	}
}

// markDirty flags a category as modified since open. Save does not read
// this flag: a sheet's category is written from the typed model once that
// sheet has hydrated it, and every raw part still in the index is written
// back verbatim.
func (p *PartIndex) markDirty(cat PartCategory) { p.dirty[cat] = true }

// markHydrated flags a category as having been lifted from raw bytes into
// typed structures.
func (p *PartIndex) markHydrated(cat PartCategory) { p.hydrated[cat] = true }

// isHydrated reports whether category has been lifted out of raw bytes.
func (p *PartIndex) isHydrated(cat PartCategory) bool { return p.hydrated[cat] }

// isDirty reports whether category has pending changes to re-serialize.
func (p *PartIndex) isDirty(cat PartCategory) bool { return p.dirty[cat] }

// hasCategory reports whether any raw part remains under category.
func (p *PartIndex) hasCategory(cat PartCategory) bool {
	m, ok := p.byCategory[cat]
	return ok && len(m) > 0
}

// remainingParts returns every raw part (path, bytes) still un-hydrated
// under category, in no particular order; callers needing determinism
// (e.g. save) sort by path themselves.
func (p *PartIndex) remainingParts(cat PartCategory) map[string][]byte {
	out := map[string][]byte{}
	for path, rp := range p.byCategory[cat] {
		out[path] = rp.data
	}
	return out
}

// allPaths returns every raw part path across every category, used by the
// package writer to pass through untouched parts verbatim.
func (p *PartIndex) allPaths() []string {
	var paths []string
	for _, m := range p.byCategory {
		for path := range m {
			paths = append(paths, path)
		}
	}
	return paths
}
