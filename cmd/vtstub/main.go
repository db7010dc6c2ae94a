// Command vtstub runs a local stand-in for the VirusTotal v3 URL endpoints so
// the analyzer can be exercised without a real API key.
// Usage: go run ./cmd/vtstub [-port 9998] [-key stub-key] [-pending 1]
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/raysh454/urlanalyzer/internal/vtstub"
)

func main() {
	cfg := vtstub.DefaultConfig()
	flag.IntVar(&cfg.Port, "port", cfg.Port, "port to listen on")
	flag.StringVar(&cfg.APIKey, "key", cfg.APIKey, "required x-apikey value (empty accepts any)")
	flag.IntVar(&cfg.PendingPolls, "pending", cfg.PendingPolls, "report fetches answered as queued before completing")
	flag.Parse()

	if cfg.Port < 1 || cfg.Port > 65535 {
		log.Fatalf("Invalid port: %d", cfg.Port)
	}

	fmt.Println("===========================================")
	fmt.Println("   VirusTotal stub")
	fmt.Println("===========================================")
	fmt.Printf("Listening on :%d\n", cfg.Port)
	fmt.Printf("Point the server at it with VIRUS_TOTAL_BASE_URL=http://127.0.0.1:%d VIRUS_TOTAL_API_KEY=%s\n", cfg.Port, cfg.APIKey)
	fmt.Println()
	fmt.Println("Control endpoints:")
	fmt.Println("  POST /stub/verdicts     set stats for a host")
	fmt.Println("  POST /stub/pending      set pending poll count")
	fmt.Println("  POST /stub/reset        clear state")
	fmt.Println("  GET  /stub/submissions  list submitted URLs")

	if err := vtstub.New(cfg).Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
