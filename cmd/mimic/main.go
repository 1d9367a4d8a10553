// Command mimic generates random documents from a schema file.
//
//	mimic -schema student.yaml -count 10 -seed 42
//	mimic -schema api.yaml -component Student -output extjson
//	mimic -schema student.schema.json -paths
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/nieomylnieja/mimic/internal/config"
	"github.com/nieomylnieja/mimic/pkg/mimic"
	"github.com/nieomylnieja/mimic/pkg/schema"
	"github.com/nieomylnieja/mimic/pkg/sources/jsonschema"
	"github.com/nieomylnieja/mimic/pkg/sources/openapi"
)

func main() {
	log.SetFlags(0)

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("mimic: %v", err)
	}
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()
	if err = cfg.Validate(); err != nil {
		log.Fatalf("mimic: invalid configuration: %v", err)
	}
	if err = run(context.Background(), cfg, os.Stdout); err != nil {
		log.Fatalf("mimic: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	model, err := loadModel(ctx, cfg)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		log.Printf("loaded %s schema %q from %s", cfg.ResolvedFormat(), model.Name(), cfg.Schema)
	}
	paths, err := mimic.ExtractPaths(model)
	if err != nil {
		return err
	}
	if cfg.Paths {
		dumper := spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true}
		dumper.Fdump(out, paths)
		return nil
	}

	var opts []mimic.GenerateOption
	if cfg.OptionsFile != "" {
		options, err := config.LoadOptions(cfg.OptionsFile)
		if err != nil {
			return err
		}
		if opts, err = options.GenerateOptions(); err != nil {
			return err
		}
	}
	if cfg.Seed != 0 {
		opts = append(opts, mimic.WithSeed(cfg.Seed))
	}
	documents, err := mimic.GenerateDocuments(paths, cfg.Count, opts...)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		log.Printf("generated %d documents", len(documents))
	}
	return writeDocuments(out, cfg.Output, documents)
}

func loadModel(ctx context.Context, cfg *config.Config) (*schema.Model, error) {
	format := cfg.ResolvedFormat()
	if format == config.FormatYAML {
		return schema.LoadFile(cfg.Schema)
	}
	data, err := os.ReadFile(cfg.Schema)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", cfg.Schema)
	}
	switch format {
	case config.FormatJSONSchema:
		return jsonschema.FromJSON(cfg.Schema, data)
	case config.FormatOpenAPI:
		return openapi.FromDocument(ctx, data, cfg.Component)
	default:
		return nil, errors.Errorf("unsupported schema format %q", format)
	}
}

// writeDocuments writes one document per line.
func writeDocuments(out io.Writer, output config.Output, documents []mimic.Document) error {
	w := bufio.NewWriter(out)
	for _, doc := range documents {
		var (
			data []byte
			err  error
		)
		switch output {
		case config.OutputExtJSON:
			data, err = bson.MarshalExtJSON(doc, false, false)
		default:
			data, err = json.Marshal(doc)
		}
		if err != nil {
			return errors.Wrap(err, "failed to encode document")
		}
		if _, err = fmt.Fprintln(w, string(data)); err != nil {
			return err
		}
	}
	return w.Flush()
}
