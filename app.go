package main

import "github.com/masmgr/changed-files-go/cmd"

func main() {
	cmd.Run()
}
