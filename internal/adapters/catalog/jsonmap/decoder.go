// Package jsonmap reads the flat {"id": "name", ...} catalog format the bot
// used before catalogs moved to TOML.
package jsonmap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bnema/yolka/internal/domain"
)

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

// Decode keeps candidates in the order their keys appear in the object.
func Decode(r io.Reader) (domain.Catalog, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return domain.Catalog{}, fmt.Errorf("%w: expected an object of id to name", domain.ErrInvalidCatalog)
	}

	var candidates []domain.Candidate
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return domain.Catalog{}, fmt.Errorf("decode catalog: %w", err)
		}
		id, _ := keyTok.(string)

		var name string
		if err := dec.Decode(&name); err != nil {
			return domain.Catalog{}, fmt.Errorf("decode catalog: candidate %q: %w", id, err)
		}
		candidates = append(candidates, domain.Candidate{ID: domain.CandidateID(id), Name: name})
	}

	if _, err := dec.Token(); err != nil {
		return domain.Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return domain.Catalog{}, fmt.Errorf("%w: trailing data after catalog object", domain.ErrInvalidCatalog)
	}

	return domain.NewCatalog(candidates)
}
