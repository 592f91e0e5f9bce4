package main

import "github.com/yumyai/vogapi/cmd"

func main() {
	cmd.Execute()
}
