package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/invopop/jsonschema"

	"github.com/umputun/hiretrack/app/seed"
)

func main() {
	data, err := generate()
	if err != nil {
		log.Fatalf("failed to generate schema: %v", err)
	}

	outputPath := "seed-schema.json"
	if len(os.Args) > 1 {
		outputPath = os.Args[1]
	}

	if err := os.WriteFile(outputPath, data, 0o600); err != nil { //nolint:gosec // schema file is not sensitive
		log.Fatalf("failed to write schema file: %v", err)
	}

	fmt.Printf("Schema generated successfully at %s\n", outputPath)
}

// generate reflects seed.Config into indented json schema
func generate() ([]byte, error) {
	schema := jsonschema.Reflect(&seed.Config{})
	schema.Title = "Hiretrack Seed File Schema"
	schema.Description = "Schema for hiretrack seed yaml file with jobs and assessments"
	schema.Version = "1.0.0"
	return json.MarshalIndent(schema, "", "  ")
}
