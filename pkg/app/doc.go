// Package app contains the application wiring. It owns the logger, the node
// registry and the graph definition loader, and runs graphs built from
// definition files. It is decoupled from any specific entrypoint.
package app
