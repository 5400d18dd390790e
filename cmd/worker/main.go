package main

import (
	"log"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: worker <warm|invalidate|status>")
	}

	switch os.Args[1] {
	case "warm":
		RunWarm(os.Args[2:])
	case "invalidate":
		RunInvalidate(os.Args[2:])
	case "status":
		RunStatus(os.Args[2:])
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}
