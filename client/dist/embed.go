package clientdist

import _ "embed"

// ParkdashJS is the thin client script.
//
// It is served at "/_parkdash/client.js" under the router base.
//
//go:embed parkdash.js
var ParkdashJS []byte
