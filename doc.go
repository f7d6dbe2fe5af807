// Package rendercli turns a render request (scene file, engine, device, frame
// range and output directory) into a render-tool command line. The
// orchestrator in pkg/orchestrator collects the request, builds the command
// and, when a launcher is configured, runs it; this package re-exports the
// common entry points.
package rendercli
