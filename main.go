/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/
package main

import (
	"github.com/jpl-au/searchrelay/cmd"

	// Import extensions - each registers itself via init()
	_ "github.com/jpl-au/searchrelay/extension/all"
)

func main() {
	cmd.Execute()
}
