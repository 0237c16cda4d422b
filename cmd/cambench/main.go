// Command cambench benchmarks the timing and stability of a NAO camera
// stream and writes the results for later analysis.
package main

import "github.com/naolab/cambench/commands"

func main() {
	commands.Execute()
}
