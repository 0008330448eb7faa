package dispatcher

// DispatchingRequest is the wire level message handed to a dispatcher
type DispatchingRequest struct {
	Address     string
	Content     []byte
	ContentType string
	Headers     map[string]string
}

// DispatchingResponse is the wire level result a dispatcher returns. The
// response comes back whatever the transport status, soap faults ride on
// error statuses.
type DispatchingResponse struct {
	Content     []byte
	ContentType string
	Headers     map[string]string
	StatusCode  int
}

// MessageDispatcher carries one soap message to the remote service and
// returns the raw result. Connection management, pooling and retries belong
// behind this interface.
type MessageDispatcher interface {
	Dispatch(request *DispatchingRequest) (*DispatchingResponse, error)
}
