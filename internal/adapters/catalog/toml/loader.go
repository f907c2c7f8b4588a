package toml

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/bnema/yolka/internal/domain"
	toml "github.com/pelletier/go-toml/v2"
)

// LoadFile reads a candidate catalog. Candidates keep the order they are
// declared in.
func LoadFile(path string) (domain.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("read catalog file: %w", err)
	}

	catalog, err := Decode(bytes.NewReader(data))
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("load catalog %s: %w", path, err)
	}

	return catalog, nil
}

func Decode(r io.Reader) (domain.Catalog, error) {
	var file fileSchema
	decoder := toml.NewDecoder(r).DisallowUnknownFields()
	if err := decoder.Decode(&file); err != nil {
		return domain.Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return domain.Catalog{}, err
	}
	file.applyDefaults()

	candidates := make([]domain.Candidate, 0, len(file.Candidates))
	for _, entry := range file.Candidates {
		candidates = append(candidates, fromSchema(entry))
	}

	return domain.NewCatalog(candidates)
}

// Encode writes catalog in the file format LoadFile reads.
func Encode(w io.Writer, catalog domain.Catalog) error {
	file := fileSchema{Version: currentSchemaVersion}
	for _, candidate := range catalog.Candidates() {
		file.Candidates = append(file.Candidates, toSchema(candidate))
	}

	if err := toml.NewEncoder(w).Encode(file); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return nil
}

func fromSchema(entry candidateSchema) domain.Candidate {
	return domain.Candidate{ID: domain.CandidateID(entry.ID), Name: entry.Name}
}

func toSchema(candidate domain.Candidate) candidateSchema {
	return candidateSchema{ID: string(candidate.ID), Name: candidate.Name}
}
