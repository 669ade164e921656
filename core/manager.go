// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"sort"

	"github.com/sirupsen/logrus"
)

type disposeState int

// A resource absent from the table is gone
const (
	untouched disposeState = iota
	disposing
)

type record struct {
	resource Resource
	state    disposeState
}

// NewResourceManager returns an empty manager, log may be nil
func NewResourceManager(log *logrus.Entry) *ResourceManager {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &ResourceManager{
		records: make(map[Handle]*record),
		log:     log,
	}
}

// ResourceManager is the registry of live resources and the single
// coordinated disposal entry point. It is not safe for concurrent use,
// resources belong to the goroutine owning the GPU context.
type ResourceManager struct {
	records map[Handle]*record
	last    Handle
	log     *logrus.Entry
}

// mint returns the next unused handle
func (m *ResourceManager) mint() Handle {
	m.last++
	return m.last
}

// Manage starts tracking r
func (m *ResourceManager) Manage(r Resource) {
	m.records[r.Handle()] = &record{resource: r, state: untouched}
	m.log.WithFields(logrus.Fields{
		"kind":   kindOf(r),
		"handle": r.Handle(),
	}).Debug("resource created")
}

// Tracked reports whether r is live in this manager
func (m *ResourceManager) Tracked(r Resource) bool {
	if r == nil {
		return false
	}
	rec, ok := m.records[r.Handle()]
	return ok && rec.resource == r
}

// Dispose releases r once. It returns false when r is not tracked.
// The first call on a tracked resource marks it disposing, releases its
// native objects and stops tracking it. A call made while r is
// disposing, from inside its own release, only stops tracking it.
func (m *ResourceManager) Dispose(r Resource) bool {
	if !m.Tracked(r) {
		return false
	}

	h := r.Handle()
	rec := m.records[h]
	if rec.state == disposing {
		delete(m.records, h)
		return true
	}

	rec.state = disposing
	if rel, ok := r.(releaser); ok {
		rel.release()
	}
	delete(m.records, h)

	m.log.WithFields(logrus.Fields{
		"kind":   kindOf(r),
		"handle": h,
	}).Debug("resource disposed")
	return true
}

// Len returns the number of tracked resources
func (m *ResourceManager) Len() int {
	return len(m.records)
}

// Resources returns the tracked resources in creation order
func (m *ResourceManager) Resources() []Resource {
	handles := make([]Handle, 0, len(m.records))
	for h := range m.records {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })

	resources := make([]Resource, len(handles))
	for i, h := range handles {
		resources[i] = m.records[h].resource
	}
	return resources
}
