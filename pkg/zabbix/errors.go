package zabbix

import (
	"errors"
	"fmt"
)

// RPCError is the error object returned by the server inside a JSON-RPC
// response envelope. It carries the server-provided code, message and data.
type RPCError struct {
	Method  string `json:"-"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	return fmt.Sprintf("%s failed: code %d: %s: %s", e.Method, e.Code, e.Message, e.Data)
}

// TransportError indicates that a request never produced a usable HTTP
// response: the server was unreachable or replied with a non-success status.
type TransportError struct {
	Method string
	Status int // 0 if the request never completed
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: server returned status %d", e.Method, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Method, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError indicates that the HTTP exchange succeeded but the body was
// not a valid JSON-RPC response (empty body, malformed JSON, missing result).
type ProtocolError struct {
	Method string
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Method, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Method, e.Reason)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// IsRPCError reports whether err is a server-side JSON-RPC error and, if so,
// returns it.
func IsRPCError(err error) (*RPCError, bool) {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr, true
	}
	return nil, false
}
