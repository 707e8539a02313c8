// Command demosite starts a local site that simulates simple bot blocking.
// Usage: go run ./cmd/demosite [port]
// Default port: 9999
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/raysh454/kasumi/internal/demosite"
)

func main() {
	cfg := demosite.DefaultConfig()

	// Optional: custom port from command line
	if len(os.Args) > 1 {
		port, err := strconv.Atoi(os.Args[1])
		if err != nil || port < 1 || port > 65535 {
			log.Fatalf("Invalid port: %s", os.Args[1])
		}
		cfg.Port = port
	}

	fmt.Println("===========================================")
	fmt.Println("   Kasumi Demo Site - Bot Blocking Demo")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("This site serves a JavaScript challenge to plain HTTP")
	fmt.Println("clients and the real article to anyone who clears it,")
	fmt.Println("the way simple bot protection does.")
	fmt.Println()
	fmt.Println("Modes (switch via the control panel):")
	fmt.Println("  - challenge: interstitial until the clearance cookie is set")
	fmt.Println("  - hard:      interstitial always, bypass attempts fail")
	fmt.Println("  - open:      no blocking at all")
	fmt.Println()
	fmt.Println("Point the fetch service at /article with")
	fmt.Println("is_block_element=#challenge to watch the escalation.")
	fmt.Println()

	site := demosite.NewSite(cfg)
	if err := site.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
