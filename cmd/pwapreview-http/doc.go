// Package main provides the entry point for pwapreview-http.
//
// pwapreview-http serves the current directory over plain HTTP on port
// 8000 and prints the URLs to open on a phone connected to the same
// network.
package main
