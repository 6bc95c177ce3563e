package server

import (
	"encoding/json"

	perrors "github.com/123Haben/parking-place/internal/errors"
	"github.com/123Haben/parking-place/pkg/router"
)

// Message types sent by the client.
const (
	MsgHello    = "hello"
	MsgNavigate = "navigate"
	MsgPopState = "popstate"
	MsgBack     = "back"
	MsgForward  = "forward"
)

// Message types sent by the server.
const (
	MsgRender = "render"
	MsgError  = "error"
)

// ClientMessage is a message received on the navigation channel.
// Only the fields of the given Type are meaningful.
type ClientMessage struct {
	Type string `json:"type"`

	// hello, navigate, popstate
	Path string `json:"path,omitempty"`

	// hello
	Locale string `json:"locale,omitempty"`

	// navigate
	Name    string `json:"name,omitempty"`
	Replace bool   `json:"replace,omitempty"`

	// popstate; -1 when the browser state carries no index
	Index *int `json:"index,omitempty"`
}

// HelloMessage acknowledges a client hello.
type HelloMessage struct {
	Type    string `json:"type"`
	Session string `json:"session"`
	Mode    string `json:"mode"`
}

// RenderMessage tells the client to apply a navigation.
type RenderMessage struct {
	Type   string `json:"type"`
	Op     string `json:"op"`
	URL    string `json:"url"`
	Path   string `json:"path"`
	Route  string `json:"route,omitempty"`
	Title  string `json:"title"`
	HTML   string `json:"html"`
	Nav    string `json:"nav"`
	Index  int    `json:"index"`
	Delta  int    `json:"delta,omitempty"`
	Status int    `json:"status"`
}

// ErrorMessage reports a failed client request. The session stays open.
type ErrorMessage struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DecodeClientMessage parses one client frame.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ClientMessage{}, perrors.New(perrors.CodeMalformedMessage).
			WithDetail(err.Error()).Wrap(err)
	}
	switch msg.Type {
	case MsgHello, MsgNavigate, MsgPopState, MsgBack, MsgForward:
		return msg, nil
	case "":
		return ClientMessage{}, perrors.New(perrors.CodeMalformedMessage).
			WithDetail(`missing "type"`)
	default:
		return ClientMessage{}, perrors.New(perrors.CodeUnknownMessage).
			WithDetailf("type %q", msg.Type)
	}
}

// Location returns the navigation target of a navigate message.
func (m ClientMessage) Location() router.Location {
	if m.Name != "" {
		return router.ToName(m.Name)
	}
	return router.ToPath(m.Path)
}

func errorMessage(err error) ErrorMessage {
	code := perrors.CodeOf(err)
	msg := err.Error()
	var pe *perrors.ParkError
	if perrors.As(err, &pe) {
		msg = pe.Message
		if pe.Detail != "" {
			msg += ": " + pe.Detail
		}
	}
	return ErrorMessage{Type: MsgError, Code: code, Message: msg}
}
