package main

import "github.com/ihavespoons/shear/cmd"

func main() {
	cmd.Execute()
}
