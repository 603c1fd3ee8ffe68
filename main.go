package main

import "github.com/quellsec/quell/cmd/quell"

func main() { quell.Execute() }
