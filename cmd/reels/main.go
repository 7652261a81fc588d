// Command reels manages the holiday program catalog.
package main

import "github.com/mesh-intelligence/reels/internal/cli"

func main() {
	cli.Execute()
}
