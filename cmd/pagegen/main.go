// pagegen renders a landing page document from a JSON config file, using
// the same renderer the server publishes with. Product snapshots must be
// embedded in the config (the _product field on each slot); pagegen does
// not talk to any backend, so the same input yields the same bytes in CI,
// on a laptop, or in the service.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"offerhub/internal/template"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to page config JSON (required)")
		outPath    = flag.String("out", "", "output file (default stdout)")
		cdnBase    = flag.String("cdn-base", "", "override template asset base URL")
	)
	flag.Parse()

	if *configPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(*configPath)
	if err != nil {
		log.Fatalf("Failed to read config: %v", err)
	}

	var cfg template.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("Failed to parse config: %v", err)
	}

	html := template.Render(cfg, template.Options{CDNBase: *cdnBase})

	if *outPath == "" {
		fmt.Println(html)
		return
	}
	if err := os.WriteFile(*outPath, []byte(html), 0644); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
	log.Printf("✓ Rendered %s (%d bytes)", *outPath, len(html))
}
