package main

import "github.com/ValentinKolb/serjs/cmd"

func main() {
	cmd.Execute()
}
