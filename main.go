package main

import "github.com/sopiot/scheduling-framework-sub001/cmd"

func main() {
	cmd.Execute()
}
