// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

// Command gemfire is a command line client for the GemFire REST API.
//
// Connection settings come from flags, GEMFIRE_* environment variables and
// .env / .env.local files in the working directory, in that order of priority:
//
//	gemfire --url http://localhost:7070 regions
//	GEMFIRE_URL=http://localhost:7070 gemfire get orders 1 2
package main

import (
	"os"
)

func main() {
	if err := newApp().execute(); err != nil {
		os.Exit(1)
	}
}
