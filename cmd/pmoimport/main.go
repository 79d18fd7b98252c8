// Command pmoimport previews a status spreadsheet import from the terminal.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	pg "dashpmo/internal/adapters/postgres"
	"dashpmo/internal/config"
	"dashpmo/internal/importer"
	"dashpmo/internal/logging"
	"dashpmo/internal/ports"
	importsvc "dashpmo/internal/services/imports"
)

func main() {
	file := flag.String("file", "", "spreadsheet to preview (.xlsx or .xls)")
	strict := flag.Bool("strict", false, "treat unrecognized labels as row errors")
	template := flag.String("template", "", "write the CSV template to this path and exit")
	flag.Parse()

	cfg, _ := config.Load()
	logging.SetLevel(cfg.LogLevel)

	if *template != "" {
		if err := writeTemplate(*template); err != nil {
			log.Fatalf("template: %v", err)
		}
		fmt.Fprintf(os.Stderr, "template written to %s\n", *template)
		return
	}
	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var projects ports.ProjectRepository
	if cfg.DatabaseURL != "" {
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db connect error: %v", err)
		}
		defer db.Close()
		projects = db
	} else {
		log.Printf("DATABASE_URL not set; every project is treated as new")
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	svc := importsvc.New(projects, nil, nil, importsvc.Options{StoreTimeout: cfg.StoreTimeout})
	p, err := svc.Preview(ctx, filepath.Base(*file), f, ports.ImportOptions{Strict: *strict})
	if err != nil {
		log.Fatalf("import: %v", err)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p.Result); err != nil {
		log.Fatal(err)
	}
}

func writeTemplate(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := importer.WriteTemplate(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
