// Package config loads and validates indulgent.yaml, the project
// configuration file for the CLI and the development server.
package config
