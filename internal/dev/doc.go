// Package dev implements the development server: it pre-renders the
// pages directory, serves the output over HTTP, watches sources for
// changes, and pushes live-reload messages to connected browsers.
package dev
