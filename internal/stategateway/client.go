// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package stategateway talks to a rusk node over HTTP, the wallet's
// only window onto chain state: notes, nullifiers, Merkle openings,
// account data, and transaction outcomes. The wire container is a
// named binary request posted to a target's method, exactly the
// shape the node itself expects; GraphQL queries ride the same
// container addressed at the "Chain" target.
package stategateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/decred/go-socks/socks"
	"github.com/gorilla/websocket"

	"github.com/dusk-network/dusk-deploy-cli/internal/dlog"
	"github.com/dusk-network/dusk-deploy-cli/internal/walleterr"
)

var log = dlog.StatLog

// RuskRequest is the binary envelope every call to the node is
// wrapped in: a method name and an opaque payload.
type RuskRequest struct {
	Name string
	Data []byte
}

// Client is the low-level transport shared by Gateway and the prover
// gateway: both address the node through the same "target/method"
// HTTP routing and the same GraphQL "Chain" target. Feeder streams
// (CallStream) ride a separate websocket dialer, since a feeder is a
// long-lived push stream rather than a single request/response.
type Client struct {
	httpClient *http.Client
	wsDialer   *websocket.Dialer
	baseURL    string
}

// SocksProxy configures Client to dial the node through a SOCKS5
// proxy instead of connecting directly, for operators who run rusk
// behind one.
type SocksProxy struct {
	Addr     string
	Username string
	Password string
}

// NewClient returns a Client addressing baseURL (e.g.
// "http://127.0.0.1:8080"), optionally tunneled through proxy.
func NewClient(baseURL string, timeout time.Duration, proxy *SocksProxy) *Client {
	transport := &http.Transport{}
	wsDialer := &websocket.Dialer{HandshakeTimeout: timeout}
	if proxy != nil {
		dialer := &socks.Proxy{
			Addr:     proxy.Addr,
			Username: proxy.Username,
			Password: proxy.Password,
		}
		netDial := func(network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		}
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			return netDial(network, addr)
		}
		wsDialer.NetDial = netDial
	}

	return &Client{
		httpClient: &http.Client{Transport: transport, Timeout: timeout},
		wsDialer:   wsDialer,
		baseURL:    baseURL,
	}
}

func (c *Client) endpoint(target string, req RuskRequest) string {
	return fmt.Sprintf("%s/on/%s/%s", c.baseURL, target, req.Name)
}

// Call posts req to target and returns the full response body. Used
// for bounded query-style calls (contract query, GraphQL, tx
// propagation).
func (c *Client) Call(ctx context.Context, version int, target string, req RuskRequest) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(target, req), bytes.NewReader(req.Data))
	if err != nil {
		return nil, walleterr.Wrap(walleterr.Transport, "building rusk request", err)
	}
	httpReq.Header.Set("Rusk-Version", strconv.Itoa(version))
	httpReq.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Errorf("calling %s/%s: %v", target, req.Name, err)
		return nil, walleterr.Wrap(walleterr.Transport, "calling rusk", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, walleterr.Wrap(walleterr.Transport, "reading rusk response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, walleterr.New(walleterr.RemoteRusk, string(body))
	}
	return body, nil
}

// CallStream opens a feeder stream for req against target: a
// long-lived websocket connection the node pushes fixed-length
// records over, rather than a single request/response. The initial
// request payload is sent as the first outbound message; the caller
// owns closing the returned reader.
func (c *Client) CallStream(ctx context.Context, version int, target string, req RuskRequest) (io.ReadCloser, error) {
	header := http.Header{}
	header.Set("Rusk-Version", strconv.Itoa(version))
	header.Set("Rusk-Feeder", "true")

	conn, resp, err := c.wsDialer.DialContext(ctx, feederURL(c.baseURL, target, req.Name), header)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)
			return nil, walleterr.New(walleterr.RemoteRusk, string(body))
		}
		return nil, walleterr.Wrap(walleterr.Transport, "dialing rusk feeder", err)
	}

	if err := conn.WriteMessage(websocket.BinaryMessage, req.Data); err != nil {
		conn.Close()
		return nil, walleterr.Wrap(walleterr.Transport, "writing rusk feeder request", err)
	}

	return &feederReader{conn: conn}, nil
}

// GQLQuery issues query against the "Chain" target at protocol
// version 2, the node's GraphQL surface for tx outcomes and block
// height.
func (c *Client) GQLQuery(ctx context.Context, query string) ([]byte, error) {
	return c.Call(ctx, 2, "Chain", RuskRequest{Name: "gql", Data: []byte(query)})
}

// ContractQuery calls method on the transfer contract (or another
// contract identified by contractIDHex) with an already-serialized
// argument blob, returning the opaque response payload.
func (c *Client) ContractQuery(ctx context.Context, contractIDHex, method string, args []byte) ([]byte, error) {
	return c.Call(ctx, 1, contractIDHex, RuskRequest{Name: method, Data: args})
}

// ContractQueryStream is ContractQuery's streaming counterpart, used
// by FetchNotes to pull an unbounded feed of tree leaves.
func (c *Client) ContractQueryStream(ctx context.Context, contractIDHex, method string, args []byte) (io.ReadCloser, error) {
	return c.CallStream(ctx, 1, contractIDHex, RuskRequest{Name: method, Data: args})
}
