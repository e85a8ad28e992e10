package orchestrator

import "context"

// LoginButtonID is the id of the element that starts the login.
const LoginButtonID = "ii-login-button"

// Page exposes the hosting page's address.
type Page interface {
	Address() string
}

// Trigger is an interactive element the user activates to log in.
type Trigger interface {
	// OnActivate registers fn to run on every activation.
	OnActivate(fn func()) error
}

// Controls locates interactive elements by id.
type Controls interface {
	Trigger(id string) (Trigger, bool)
}

// Reporter is the failure sink.
type Reporter interface {
	Report(message string)
	Clear()
	Fail(ctx context.Context, err error)
}
