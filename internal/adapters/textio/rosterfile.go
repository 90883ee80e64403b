package textio

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/okian/teesheet/internal/domain/roster"
)

// RosterFile is the YAML form of a named roster.
type RosterFile struct {
	Golfers   []string `yaml:"golfers"`
	GroupSize int      `yaml:"group_size"`
	Days      int      `yaml:"days"`
	Seed      *int64   `yaml:"seed,omitempty"`
	Strict    bool     `yaml:"strict,omitempty"`
}

// Roster validates the file and builds its roster.
func (f RosterFile) Roster() (*roster.Roster, error) {
	var opts []roster.Option
	if f.Strict {
		opts = append(opts, roster.WithStrictSizing())
	}
	return roster.New(f.Golfers, f.GroupSize, f.Days, opts...)
}

// ReadRoster decodes a YAML roster file. Unknown keys are rejected.
func ReadRoster(r io.Reader) (RosterFile, error) {
	var f RosterFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return RosterFile{}, fmt.Errorf("%w: %w", ErrMalformedRoster, err)
	}
	return f, nil
}

// WriteRoster encodes f as YAML.
func WriteRoster(w io.Writer, f RosterFile) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return err
	}
	return enc.Close()
}
