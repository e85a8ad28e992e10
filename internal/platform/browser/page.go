//go:build js && wasm

package browser

import (
	"syscall/js"

	"iirelay/internal/relay/dispatch"
	"iirelay/internal/relay/orchestrator"
	"iirelay/internal/relay/report"
)

// Page is the relay's document and window.
type Page struct {
	window   js.Value
	document js.Value
}

func NewPage() *Page {
	window := js.Global()
	return &Page{window: window, document: window.Get("document")}
}

// Address returns the page's full address.
func (p *Page) Address() string {
	return p.window.Get("location").Get("href").String()
}

// Dataset returns the data attributes of the element with id.
func (p *Page) Dataset(id string) (map[string]string, bool) {
	el := p.document.Call("getElementById", id)
	if absent(el) {
		return nil, false
	}
	dataset := el.Get("dataset")
	keys := js.Global().Get("Object").Call("keys", dataset)
	out := make(map[string]string, keys.Length())
	for i := range keys.Length() {
		key := keys.Index(i).String()
		out[key] = dataset.Get(key).String()
	}
	return out, true
}

func (p *Page) Trigger(id string) (orchestrator.Trigger, bool) {
	el := p.document.Call("getElementById", id)
	if absent(el) {
		return nil, false
	}
	return &trigger{el: el}, true
}

func (p *Page) Element(id string) (report.Element, bool) {
	el := p.document.Call("getElementById", id)
	if absent(el) {
		return nil, false
	}
	return &element{el: el}, true
}

// Parent classifies window.parent against the page's own window.
func (p *Page) Parent() dispatch.ParentRelation {
	parent := p.window.Get("parent")
	switch {
	case absent(parent):
		return dispatch.ParentNone
	case parent.Equal(p.window):
		return dispatch.ParentSelf
	default:
		return dispatch.ParentOther
	}
}

func (p *Page) PostToParent(msg dispatch.Message, targetOrigin string) error {
	obj := js.Global().Get("Object").New()
	obj.Set("kind", msg.Kind)
	obj.Set("delegation", msg.Delegation)
	return catch(func() {
		p.window.Get("parent").Call("postMessage", obj, targetOrigin)
	})
}

func (p *Page) Navigate(address string) error {
	return catch(func() {
		p.window.Get("location").Set("href", address)
	})
}

func (p *Page) Replace(address string) error {
	return catch(func() {
		p.window.Get("location").Call("replace", address)
	})
}

type element struct {
	el js.Value
}

func (e *element) SetText(text string) {
	e.el.Set("textContent", text)
}

func (e *element) SetVisible(visible bool) {
	e.el.Set("hidden", !visible)
}

// trigger holds its click callbacks for the page's lifetime.
type trigger struct {
	el    js.Value
	funcs []js.Func
}

func (t *trigger) OnActivate(fn func()) error {
	cb := js.FuncOf(func(js.Value, []js.Value) any {
		fn()
		return nil
	})
	if err := catch(func() { t.el.Call("addEventListener", "click", cb) }); err != nil {
		cb.Release()
		return err
	}
	t.funcs = append(t.funcs, cb)
	return nil
}
