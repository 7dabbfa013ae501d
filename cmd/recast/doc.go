// Package main hosts the recast CLI.
//
// The root command takes one episode page URL and runs the whole pipeline.
// Subcommands show the voice plan, check backend readiness, and scaffold or
// print configuration. Work lives in the internal packages; commands only
// resolve config and logging and render results.
package main
