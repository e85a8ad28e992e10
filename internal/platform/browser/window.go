//go:build js && wasm

package browser

import (
	"errors"
	"log/slog"
	"sync"
	"syscall/js"
	"time"

	"iirelay/internal/delegation"
	"iirelay/internal/provider"
)

// ErrPopupBlocked is returned when window.open yields no window.
var ErrPopupBlocked = errors.New("browser: identity provider window was blocked")

const (
	popupName        = "idpWindow"
	closePollEvery   = 500 * time.Millisecond
	inboundQueueSize = 16
)

// ProviderWindow opens provider popups from the relay window.
type ProviderWindow struct {
	window js.Value
	logger *slog.Logger
}

func NewProviderWindow(logger *slog.Logger) *ProviderWindow {
	return &ProviderWindow{window: js.Global(), logger: logger}
}

func (w *ProviderWindow) Open(address, features string) (provider.Channel, error) {
	var popup js.Value
	err := catch(func() {
		popup = w.window.Call("open", address, popupName, features)
	})
	if err != nil {
		return nil, err
	}
	if absent(popup) {
		return nil, ErrPopupBlocked
	}

	ch := &popupChannel{
		window:   w.window,
		popup:    popup,
		logger:   w.logger,
		messages: make(chan provider.Inbound, inboundQueueSize),
		closed:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	ch.listener = js.FuncOf(ch.onMessage)
	w.window.Call("addEventListener", "message", ch.listener)
	go ch.watch()
	return ch, nil
}

type popupChannel struct {
	window   js.Value
	popup    js.Value
	listener js.Func
	logger   *slog.Logger

	messages chan provider.Inbound
	closed   chan struct{}
	done     chan struct{}

	closeOnce  sync.Once
	signalOnce sync.Once
}

func (c *popupChannel) Messages() <-chan provider.Inbound {
	return c.messages
}

func (c *popupChannel) Closed() <-chan struct{} {
	return c.closed
}

func (c *popupChannel) Post(msg provider.AuthorizeClient, targetOrigin string) error {
	obj := js.Global().Get("Object").New()
	obj.Set("kind", msg.Kind)
	obj.Set("sessionPublicKey", bytesToJS(msg.SessionPublicKey))
	obj.Set("maxTimeToLive", bigIntToJS(msg.MaxTimeToLive))
	if msg.DerivationOrigin != "" {
		obj.Set("derivationOrigin", msg.DerivationOrigin)
	}
	return catch(func() {
		c.popup.Call("postMessage", obj, targetOrigin)
	})
}

func (c *popupChannel) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.window.Call("removeEventListener", "message", c.listener)
		c.listener.Release()
		if err := catch(func() { c.popup.Call("close") }); err != nil {
			c.logger.Warn("failed to close identity provider window", "error", err)
		}
		c.signalClosed()
	})
}

func (c *popupChannel) signalClosed() {
	c.signalOnce.Do(func() { close(c.closed) })
}

// watch polls the popup since browsers fire no event when a cross-origin
// window closes.
func (c *popupChannel) watch() {
	ticker := time.NewTicker(closePollEvery)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if c.popup.Get("closed").Bool() {
				c.signalClosed()
				return
			}
		}
	}
}

// onMessage runs on the event loop and must not block.
func (c *popupChannel) onMessage(_ js.Value, args []js.Value) any {
	if len(args) == 0 {
		return nil
	}
	msg, err := inboundFromEvent(args[0])
	if err != nil {
		c.logger.Warn("dropping malformed provider message", "error", err)
		return nil
	}
	select {
	case <-c.done:
	case c.messages <- msg:
	default:
		c.logger.Warn("dropping provider message, queue full", "kind", msg.Kind)
	}
	return nil
}

func inboundFromEvent(ev js.Value) (provider.Inbound, error) {
	msg := provider.Inbound{Origin: ev.Get("origin").String()}
	data := ev.Get("data")
	if absent(data) || data.Type() != js.TypeObject {
		return msg, nil
	}
	if kind := data.Get("kind"); kind.Type() == js.TypeString {
		msg.Kind = kind.String()
	}

	switch msg.Kind {
	case provider.KindAuthorizeFailure:
		if text := data.Get("text"); text.Type() == js.TypeString {
			msg.Text = text.String()
		}
	case provider.KindAuthorizeSuccess:
		userKey, err := bytesFromJS(data.Get("userPublicKey"))
		if err != nil {
			return msg, err
		}
		msg.UserPublicKey = userKey
		delegations, err := signedFromJS(data.Get("delegations"))
		if err != nil {
			return msg, err
		}
		msg.Delegations = delegations
	}
	return msg, nil
}

func signedFromJS(list js.Value) ([]delegation.Signed, error) {
	if absent(list) {
		return nil, errors.New("browser: missing delegations")
	}
	out := make([]delegation.Signed, 0, list.Length())
	for i := range list.Length() {
		entry := list.Index(i)
		inner := entry.Get("delegation")
		if absent(inner) {
			return nil, errors.New("browser: delegation entry without delegation")
		}
		pubKey, err := bytesFromJS(inner.Get("pubkey"))
		if err != nil {
			return nil, err
		}
		expiration, err := uintFromJS(inner.Get("expiration"))
		if err != nil {
			return nil, err
		}
		var targets [][]byte
		if t := inner.Get("targets"); !absent(t) {
			for j := range t.Length() {
				target, err := bytesFromJS(t.Index(j))
				if err != nil {
					return nil, err
				}
				targets = append(targets, target)
			}
		}
		signature, err := bytesFromJS(entry.Get("signature"))
		if err != nil {
			return nil, err
		}
		out = append(out, delegation.Signed{
			Delegation: delegation.Delegation{
				PubKey:     pubKey,
				Expiration: expiration,
				Targets:    targets,
			},
			Signature: signature,
		})
	}
	return out, nil
}
