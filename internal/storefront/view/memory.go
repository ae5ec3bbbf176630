package view

import "sync"

type element struct {
	text     string
	html     string
	hidden   bool
	disabled bool
	style    map[string]string
	attrs    map[string]string
}

// Memory is an in-process Document. Only registered selectors exist.
type Memory struct {
	mu       sync.RWMutex
	elements map[string]*element
}

// NewMemory builds a document containing the given selectors.
func NewMemory(selectors ...string) *Memory {
	m := &Memory{elements: make(map[string]*element, len(selectors))}
	for _, s := range selectors {
		m.Add(s)
	}
	return m
}

// Add registers selector if it is not already present.
func (m *Memory) Add(selector string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.elements[selector]; !ok {
		m.elements[selector] = &element{style: map[string]string{}, attrs: map[string]string{}}
	}
}

// Remove drops selector from the document.
func (m *Memory) Remove(selector string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.elements, selector)
}

func (m *Memory) Exists(selector string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.elements[selector]
	return ok
}

func (m *Memory) read(selector string, fn func(*element)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if el, ok := m.elements[selector]; ok {
		fn(el)
	}
}

func (m *Memory) write(selector string, fn func(*element)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if el, ok := m.elements[selector]; ok {
		fn(el)
	}
}

func (m *Memory) Text(selector string) (out string) {
	m.read(selector, func(el *element) { out = el.text })
	return out
}

func (m *Memory) SetText(selector, text string) {
	m.write(selector, func(el *element) { el.text = text })
}

func (m *Memory) HTML(selector string) (out string) {
	m.read(selector, func(el *element) { out = el.html })
	return out
}

func (m *Memory) SetHTML(selector, html string) {
	m.write(selector, func(el *element) { el.html = html })
}

func (m *Memory) Show(selector string) {
	m.write(selector, func(el *element) { el.hidden = false })
}

func (m *Memory) Hide(selector string) {
	m.write(selector, func(el *element) { el.hidden = true })
}

// Visible is false for hidden or missing elements.
func (m *Memory) Visible(selector string) (out bool) {
	m.read(selector, func(el *element) { out = !el.hidden })
	return out
}

func (m *Memory) Style(selector, property string) (out string) {
	m.read(selector, func(el *element) { out = el.style[property] })
	return out
}

func (m *Memory) SetStyle(selector, property, value string) {
	m.write(selector, func(el *element) { el.style[property] = value })
}

func (m *Memory) Attr(selector, name string) (out string, ok bool) {
	m.read(selector, func(el *element) { out, ok = el.attrs[name] })
	return out, ok
}

func (m *Memory) SetAttr(selector, name, value string) {
	m.write(selector, func(el *element) { el.attrs[name] = value })
}

func (m *Memory) Disabled(selector string) (out bool) {
	m.read(selector, func(el *element) { out = el.disabled })
	return out
}

func (m *Memory) SetDisabled(selector string, disabled bool) {
	m.write(selector, func(el *element) { el.disabled = disabled })
}

// MemoryHistory records every replaced location.
type MemoryHistory struct {
	mu       sync.Mutex
	current  string
	replaced []string
}

func NewMemoryHistory(location string) *MemoryHistory {
	return &MemoryHistory{current: location}
}

func (h *MemoryHistory) Location() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

func (h *MemoryHistory) Replace(location string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = location
	h.replaced = append(h.replaced, location)
}

// Replaced lists the locations written so far, oldest first.
func (h *MemoryHistory) Replaced() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.replaced...)
}
