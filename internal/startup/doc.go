// Package startup handles application initialization: configuration
// loading from environment variables, directory setup, build
// information, and the structured startup/shutdown log output.
package startup
