// Package main provides the entry point for pwapreview-https.
//
// pwapreview-https serves the current directory over HTTPS on port 8443
// with a self-signed certificate generated on first run (server.crt and
// server.key in the served directory). When HTTPS cannot start it falls
// back to plain HTTP on port 8080.
package main
