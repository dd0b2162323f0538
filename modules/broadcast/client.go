package broadcast

// Client is one live connection's outbound path: a bounded queue drained by
// the transport's write pump. The queue is enqueued only through the Hub,
// which guards the closed flag with its own lock.
type Client struct {
	ID     string
	send   chan []byte
	closed bool
}

func newClient(id string, queueSize int) *Client {
	return &Client{
		ID:   id,
		send: make(chan []byte, queueSize),
	}
}

// Outbound returns the channel the transport write pump drains. The channel
// is closed when the client is unregistered, which ends the pump.
func (c *Client) Outbound() <-chan []byte {
	return c.send
}
