// Command kolam decodes, renders and serves kolam patterns.
package main

func main() {
	Execute()
}
