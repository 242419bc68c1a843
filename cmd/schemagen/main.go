package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/DjordjeVuckovic/relecov-tools/internal/loader"
	"github.com/DjordjeVuckovic/relecov-tools/pkg/apis/mappingdoc"
	"github.com/DjordjeVuckovic/relecov-tools/pkg/apis/schemadoc"
	"github.com/DjordjeVuckovic/relecov-tools/pkg/schema"
)

func main() {
	var (
		outputDir = flag.String("output", "api", "Output directory for generated schemas")
		export    = flag.String("export", "", "Also export this metadata schema file as JSON Schema")
	)
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	generator := schema.NewGenerator("relecov.io")

	documents := []struct {
		name    string
		value   any
		example string
	}{
		{name: "schema-v1", value: schemadoc.Schema{}, example: schemaExample},
		{name: "mappingspec-v1", value: mappingdoc.MappingSpec{}, example: mappingExample},
	}

	for _, doc := range documents {
		schemaJSON, err := generator.GenerateJSONSchema(doc.value)
		if err != nil {
			log.Fatalf("Failed to generate schema for %s: %v", doc.name, err)
		}

		jsonFile := filepath.Join(*outputDir, doc.name+".json")
		if err := os.WriteFile(jsonFile, []byte(schemaJSON), 0644); err != nil {
			log.Fatalf("Failed to write JSON schema: %v", err)
		}
		fmt.Printf("Generated JSON schema: %s\n", jsonFile)

		yamlFile := filepath.Join(*outputDir, doc.name+"-example.yaml")
		if err := os.WriteFile(yamlFile, []byte(doc.example), 0644); err != nil {
			log.Fatalf("Failed to write YAML example: %v", err)
		}
		fmt.Printf("Generated YAML example: %s\n", yamlFile)
	}

	if *export != "" {
		s, err := loader.LoadSchemaFile(*export)
		if err != nil {
			log.Fatalf("Failed to load %s: %v", *export, err)
		}
		out, err := schema.Marshal(loader.ExportJSONSchema(s))
		if err != nil {
			log.Fatalf("Failed to export %s: %v", s.ID(), err)
		}
		exportFile := filepath.Join(*outputDir, s.Name+".schema.json")
		if err := os.WriteFile(exportFile, []byte(out), 0644); err != nil {
			log.Fatalf("Failed to write exported schema: %v", err)
		}
		fmt.Printf("Exported %s: %s\n", s.ID(), exportFile)
	}
}

const schemaExample = `# Schema example
# Field order is kept; nested fields may reference a definition.
kind: Schema
version: v1
metadata:
  name: "RELECOV lab metadata"
  description: "Sample metadata submitted by sequencing laboratories"
name: relecov
schemaVersion: "2.1"
fields:
  - name: sample_id
    type: string
    required: true
    label: "Sample ID given by originating laboratory"
  - name: collection_date
    type: date
    required: true
  - name: host
    type: enum
    required: true
    enum: [human, animal]
  - name: location
    type: nested
    ref: location
  - name: runs
    type: list
    items:
      type: string
definitions:
  location:
    fields:
      - name: country
        type: string
        required: true
`

const mappingExample = `# MappingSpec example
kind: MappingSpec
version: v1
metadata:
  name: relecov-to-ena
  description: "Lab metadata to ENA sample checklist"
source: relecov
target: ena@1
fieldMappings:
  - source: sample_id
    target: sample_alias
  - source: host
    target: host_scientific_name
    translate:
      human: Homo sapiens
  - source: ct_value
    target: ct
    transform: to_float
  - source: location.country
    target: geographic_location
    default: Spain
`
