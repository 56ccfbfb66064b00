// Command kfctl operates on a flash image file backing a kflash feature
// store: creating one, installing and removing features, and listing
// what is currently allocated.
package main

func main() {
	execute()
}
