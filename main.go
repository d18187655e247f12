package main

import "github.com/vietdv277/bucketscope/cmd"

func main() {
	cmd.Execute()
}
