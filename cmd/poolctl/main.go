// Command poolctl creates, inspects and removes shared memory port pools.
package main

func main() {
	execute()
}
