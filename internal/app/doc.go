// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the lifecycle of one invocation: discover
// targets, resolve the graph, then dispatch an action. It is decoupled from
// any specific entrypoint like a CLI.
package app
