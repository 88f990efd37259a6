// Package main is the entry point for DocGate.
package main

func main() {
	Execute()
}
