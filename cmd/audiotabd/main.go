// Command audiotabd hosts the graph registry, pipeline pool, and hardware
// layer behind a CLI, per spec §6's "CLI host, if present".
package main

import "os"

func main() {
	os.Exit(Execute())
}
