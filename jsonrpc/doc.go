// Package jsonrpc builds requests against a JSON-RPC 1.0 or 2.0 server.
//
// A Session fixes the server address and holds TLS and authentication
// settings shared by every request it creates. Configuring TLS switches
// the session URL to https.
//
//	s, err := jsonrpc.New("2.0")
//	s.Server("node.example.com", 8332)
//	s.Auth().Basic("rpcuser", "rpcpass")
//
//	var height int
//	err = s.Call(ctx, "/", "getblockcount", nil, &height)
//
// Get, Post, Put and Delete return plain httpclient requests for callers
// that build their own envelopes.
package jsonrpc
