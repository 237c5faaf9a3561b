package main

import "cdiChart/internal/config"

func main() {
	Execute(newRootCmd(config.Load()))
}
