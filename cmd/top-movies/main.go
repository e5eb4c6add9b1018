package main

import (
	cmd "github.com/rohmanhakim/top-movies/internal/cli"
)

func main() {
	cmd.Execute()
}
