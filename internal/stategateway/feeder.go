// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package stategateway

import (
	"fmt"
	"io"
	"strings"

	"github.com/gorilla/websocket"
)

// feederURL rewrites baseURL's scheme to ws/wss and appends the
// target/method path CallStream dials, mirroring endpoint's HTTP
// routing for the request/response calls on the same Client.
func feederURL(baseURL, target, method string) string {
	ws := baseURL
	switch {
	case strings.HasPrefix(ws, "https://"):
		ws = "wss://" + strings.TrimPrefix(ws, "https://")
	case strings.HasPrefix(ws, "http://"):
		ws = "ws://" + strings.TrimPrefix(ws, "http://")
	}
	return fmt.Sprintf("%s/on/%s/%s", ws, target, method)
}

// feederReader adapts a websocket connection pushing binary feeder
// records into an io.ReadCloser, the shape collectOwnedLeaves and
// CallStream's other callers already know how to consume.
type feederReader struct {
	conn *websocket.Conn
	buf  []byte
}

// Read implements io.Reader, pulling one websocket message at a time
// and draining it into p across as many calls as p's size requires.
func (r *feederReader) Read(p []byte) (int, error) {
	for len(r.buf) == 0 {
		_, msg, err := r.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return 0, io.EOF
			}
			return 0, err
		}
		r.buf = msg
	}

	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

// Close implements io.Closer.
func (r *feederReader) Close() error {
	return r.conn.Close()
}
