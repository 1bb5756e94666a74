package cluster

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
)

// Request is the single wire shape every command is decoded into. Fields
// irrelevant to a given command are simply left at their zero value —
// the router validates per-command requirements after dispatch rather
// than modeling one struct per command, matching the single flat JSON
// object the wire protocol uses on every connection.
type Request struct {
	Command string `json:"command" validate:"required"`
	Key     string `json:"key,omitempty"`
	// Value uses a pointer so REPLICATE can distinguish "delete" (nil)
	// from "store the empty string" (non-nil, empty).
	Value  *string           `json:"value,omitempty"`
	NodeID string            `json:"node_id,omitempty"`
	Host   string            `json:"host,omitempty"`
	Port   int               `json:"port,omitempty"`
	Data   map[string]string `json:"data,omitempty"`
}

// Response is the single wire shape every reply is encoded from.
type Response struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Value   string            `json:"value,omitempty"`
	Peers   map[string]Peer   `json:"peers,omitempty"`
	Data    map[string]string `json:"data,omitempty"`
	Stats   *Snapshot         `json:"stats,omitempty"`
}

// OK and Errorf build the two response shapes the wire protocol uses.
func OK() Response { return Response{Status: "success"} }

func Errorf(format string, args ...any) Response {
	return Response{Status: "error", Message: fmt.Sprintf(format, args...)}
}

var validate = validator.New()

// ReadRequest reads exactly one newline-terminated JSON object from r and
// decodes it into a Request. There is no other framing: a reader consumes
// up to the first '\n' and treats that as the whole message (spec §6).
func ReadRequest(r *bufio.Reader) (Request, error) {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return Request{}, err
	}

	var req Request
	if jsonErr := json.Unmarshal([]byte(line), &req); jsonErr != nil {
		return Request{}, fmt.Errorf("invalid JSON: %w", jsonErr)
	}
	if valErr := validate.Struct(req); valErr != nil {
		return Request{}, fmt.Errorf("invalid request: %w", valErr)
	}
	return req, nil
}

// WriteResponse encodes resp as JSON followed by exactly one '\n' byte.
func WriteResponse(w io.Writer, resp Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteRequest encodes req as JSON followed by exactly one '\n' byte —
// used by the outbound peer RPC client and by ops tooling.
func WriteRequest(w io.Writer, req Request) error {
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// ReadResponse reads exactly one newline-terminated JSON object from r
// and decodes it into a Response.
func ReadResponse(r *bufio.Reader) (Response, error) {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return Response{}, err
	}
	var resp Response
	if jsonErr := json.Unmarshal([]byte(line), &resp); jsonErr != nil {
		return Response{}, fmt.Errorf("invalid JSON: %w", jsonErr)
	}
	return resp, nil
}
