package main

import "github.com/crystaldolphin/shellchat/cmd"

func main() {
	cmd.Execute()
}
