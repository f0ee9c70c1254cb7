// Package components holds the plain data the particle engine operates on.
package components
