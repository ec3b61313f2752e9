// seed_template.go — standalone script to load sector templates from a
// YAML file and push them to the Compass admin API.
//
// Usage:
//
//	go run scripts/seed_template.go -file templates.yaml -api http://localhost:8700 -token $COMPASS_ADMIN_TOKEN
//
// YAML shape:
//
//	sectors:
//	  manufacturing:
//	    - name: Leadership
//	      dimensions: [Vision, Sponsorship]
//	    - name: Process
//	      dimensions: [Standardization, Automation]
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"gopkg.in/yaml.v3"
)

type templateCategory struct {
	Name       string   `yaml:"name" json:"name"`
	Dimensions []string `yaml:"dimensions" json:"dimensions"`
}

type seedFile struct {
	Sectors map[string][]templateCategory `yaml:"sectors"`
}

func main() {
	filePath := flag.String("file", "templates.yaml", "path to template YAML file")
	apiURL := flag.String("api", "http://localhost:8700", "Compass API base URL")
	token := flag.String("token", "", "admin bearer token")
	dryRun := flag.Bool("dry-run", false, "print payloads without pushing")
	flag.Parse()

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("read %s: %v", *filePath, err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		log.Fatalf("parse %s: %v", *filePath, err)
	}
	if len(seed.Sectors) == 0 {
		log.Fatal("no sectors in seed file")
	}

	for sector, categories := range seed.Sectors {
		payload, err := json.Marshal(map[string]interface{}{"categories": categories})
		if err != nil {
			log.Fatalf("marshal %s: %v", sector, err)
		}

		if *dryRun {
			fmt.Printf("%s: %s\n", sector, payload)
			continue
		}

		req, err := http.NewRequest(http.MethodPut, *apiURL+"/api/v1/templates/"+sector, bytes.NewReader(payload))
		if err != nil {
			log.Fatalf("build request for %s: %v", sector, err)
		}
		req.Header.Set("Content-Type", "application/json")
		if *token != "" {
			req.Header.Set("Authorization", "Bearer "+*token)
		}

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			log.Fatalf("push %s: %v", sector, err)
		}
		if resp.StatusCode != http.StatusOK {
			log.Fatalf("push %s: unexpected status %s", sector, resp.Status)
		}
		resp.Body.Close()
		fmt.Printf("seeded %s (%d categories)\n", sector, len(categories))
	}
}
