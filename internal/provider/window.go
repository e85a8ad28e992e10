package provider

// Window opens the provider's authorize page.
type Window interface {
	// Open opens address in a new window with the given features.
	Open(address, features string) (Channel, error)
}

// Channel is an open provider window and the messages it posts back.
type Channel interface {
	// Messages delivers messages posted to the relay page while the window is open.
	Messages() <-chan Inbound
	// Closed is closed when the window closes, whoever closed it.
	Closed() <-chan struct{}
	// Post sends msg to the window, restricted to targetOrigin.
	Post(msg AuthorizeClient, targetOrigin string) error
	// Close closes the window and stops message delivery.
	Close()
}
