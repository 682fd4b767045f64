// Package httpclient builds and sends single HTTP exchanges.
//
// A Request carries the method, URL, ordered headers, an optional payload
// (form or JSON encoded), an optional accept constraint, and per-request
// TLS and authentication settings. A Client flattens the request into
// transport options, runs exactly one attempt through its transport, and
// returns a Response whose body can be decoded by content type.
//
//	req, err := httpclient.Post("https://api.example.com/items")
//	if err != nil {
//	    return err
//	}
//	_ = req.SetPayload(httpclient.NewPayload().Set("name", "widget"), httpclient.EncodingJSON)
//	_ = req.SetAccept("json")
//	req.Auth().Basic("alice", "secret")
//
//	resp, err := req.Send(ctx)
//	if err != nil {
//	    // errors.IsTransport(err), errors.IsContentTypeMismatch(err), ...
//	    return err
//	}
//	id := resp.Get("id").String()
//
// Non-2xx statuses are not errors. Redirects are not followed, connections
// are not reused, and nothing is retried.
package httpclient
