// Package relaytest provides an in-memory page for exercising the relay
// without a browser.
package relaytest

import (
	"sync"

	"iirelay/internal/relay/dispatch"
	"iirelay/internal/relay/orchestrator"
	"iirelay/internal/relay/report"
)

// Post records one message sent to the parent window.
type Post struct {
	Message      dispatch.Message
	TargetOrigin string
}

// Browser is a fake page. It serves as the orchestrator's Page and Controls,
// the reporter's Display and the dispatcher's Host.
type Browser struct {
	mu sync.Mutex

	address  string
	parent   dispatch.ParentRelation
	elements map[string]*Element
	buttons  map[string]*Button

	posts        []Post
	navigations  []string
	replacements []string

	PostErr     error
	NavigateErr error
	ReplaceErr  error
}

// NewBrowser returns a page at address with the relay's error element and
// login button present.
func NewBrowser(address string, parent dispatch.ParentRelation) *Browser {
	return &Browser{
		address: address,
		parent:  parent,
		elements: map[string]*Element{
			report.ErrorElementID: {},
		},
		buttons: map[string]*Button{
			orchestrator.LoginButtonID: {},
		},
	}
}

// RemoveElement drops the element or button with id from the page.
func (b *Browser) RemoveElement(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.elements, id)
	delete(b.buttons, id)
}

func (b *Browser) Address() string {
	return b.address
}

func (b *Browser) Trigger(id string) (orchestrator.Trigger, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	btn, ok := b.buttons[id]
	if !ok {
		return nil, false
	}
	return btn, true
}

func (b *Browser) Element(id string) (report.Element, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	el, ok := b.elements[id]
	if !ok {
		return nil, false
	}
	return el, true
}

func (b *Browser) Parent() dispatch.ParentRelation {
	return b.parent
}

func (b *Browser) PostToParent(msg dispatch.Message, targetOrigin string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.PostErr != nil {
		return b.PostErr
	}
	b.posts = append(b.posts, Post{Message: msg, TargetOrigin: targetOrigin})
	return nil
}

func (b *Browser) Navigate(address string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.NavigateErr != nil {
		return b.NavigateErr
	}
	b.navigations = append(b.navigations, address)
	return nil
}

func (b *Browser) Replace(address string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ReplaceErr != nil {
		return b.ReplaceErr
	}
	b.replacements = append(b.replacements, address)
	return nil
}

// ErrorText returns the text of the error element, or "" when it is hidden
// or absent.
func (b *Browser) ErrorText() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	el, ok := b.elements[report.ErrorElementID]
	if !ok {
		return ""
	}
	return el.Shown()
}

// LoginButton returns the login button, or nil once removed.
func (b *Browser) LoginButton() *Button {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buttons[orchestrator.LoginButtonID]
}

func (b *Browser) Posts() []Post {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Post(nil), b.posts...)
}

func (b *Browser) Navigations() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.navigations...)
}

func (b *Browser) Replacements() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.replacements...)
}

// Element is a fake text element.
type Element struct {
	mu      sync.Mutex
	text    string
	visible bool
}

func (e *Element) SetText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.text = text
}

func (e *Element) SetVisible(visible bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.visible = visible
}

// Shown returns the text when visible.
func (e *Element) Shown() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.visible {
		return ""
	}
	return e.text
}

// Button is a fake clickable element.
type Button struct {
	mu        sync.Mutex
	handlers  []func()
	AttachErr error
}

func (b *Button) OnActivate(fn func()) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.AttachErr != nil {
		return b.AttachErr
	}
	b.handlers = append(b.handlers, fn)
	return nil
}

// Handlers reports how many activation handlers are attached.
func (b *Button) Handlers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers)
}

// Click runs every attached handler.
func (b *Button) Click() {
	b.mu.Lock()
	handlers := append([]func(){}, b.handlers...)
	b.mu.Unlock()
	for _, fn := range handlers {
		fn()
	}
}
