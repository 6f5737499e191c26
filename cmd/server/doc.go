// Command server runs the pathkeeper storage health and routing
// service: an HTTP API over a registry of storage locations with
// background health probing and purpose-based path selection.
package main
