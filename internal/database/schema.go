package database

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"text/template"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Embed every CQL file under schema/ at compile time so the binary carries
// its own DDL.
//
//go:embed schema/*.cql
var schemaFiles embed.FS

// SchemaParams are the values substituted into the embedded CQL templates.
type SchemaParams struct {
	Keyspace          string
	ReplicationFactor int
}

// Schema drops and creates the sample keyspace and its tables.
type Schema struct {
	session Session
	log     *zerolog.Logger
	params  SchemaParams
	files   fs.FS
}

// NewSchema returns a Schema that renders the embedded DDL with params.
func NewSchema(session Session, logger *zerolog.Logger, params SchemaParams) *Schema {
	sub, err := fs.Sub(schemaFiles, "schema")
	if err != nil {
		// schema/ is embedded at build time; a failure here is a build defect.
		panic(fmt.Sprintf("retrieving embedded schema subtree: %v", err))
	}
	return &Schema{
		session: session,
		log:     logger,
		params:  params,
		files:   sub,
	}
}

// Statements renders every schema file, in file name order, and splits each
// into individual statements. Lines starting with "--" are comments.
func (s *Schema) Statements() ([]string, error) {
	names, err := fs.Glob(s.files, "*.cql")
	if err != nil {
		return nil, errors.Wrap(err, "listing schema files")
	}
	sort.Strings(names)

	var stmts []string
	for _, name := range names {
		raw, err := fs.ReadFile(s.files, name)
		if err != nil {
			return nil, errors.Wrapf(err, "reading schema file %s", name)
		}

		tmpl, err := template.New(name).Option("missingkey=error").Parse(string(raw))
		if err != nil {
			return nil, errors.Wrapf(err, "parsing schema file %s", name)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, s.params); err != nil {
			return nil, errors.Wrapf(err, "rendering schema file %s", name)
		}

		stmts = append(stmts, splitStatements(buf.String())...)
	}
	return stmts, nil
}

func splitStatements(src string) []string {
	var lines []string
	for _, line := range strings.Split(src, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		lines = append(lines, line)
	}

	var stmts []string
	for _, part := range strings.Split(strings.Join(lines, "\n"), ";") {
		if stmt := strings.Join(strings.Fields(part), " "); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// Drop removes the keyspace and everything in it. Dropping a keyspace that
// does not exist is a no-op.
func (s *Schema) Drop(ctx context.Context) error {
	s.log.Debug().Msg("Cleaning up. Removing schema")

	if err := s.session.Exec(ctx, fmt.Sprintf("DROP KEYSPACE IF EXISTS %s", s.params.Keyspace)); err != nil {
		return errors.Wrapf(err, "dropping keyspace %s", s.params.Keyspace)
	}
	return s.session.AwaitSchemaAgreement(ctx)
}

// Create executes the keyspace and table DDL in order and waits for every
// node to agree on the new schema.
func (s *Schema) Create(ctx context.Context) error {
	s.log.Debug().Msg("Creating Schema for initial data load")

	stmts, err := s.Statements()
	if err != nil {
		return err
	}

	for _, stmt := range stmts {
		if err := s.session.Exec(ctx, stmt); err != nil {
			return errors.Wrapf(err, "executing %q", stmt)
		}
	}

	if err := s.session.AwaitSchemaAgreement(ctx); err != nil {
		return errors.Wrap(err, "waiting for schema agreement")
	}

	s.log.Info().
		Str("keyspace", s.params.Keyspace).
		Int("statements", len(stmts)).
		Msg("schema created")
	return nil
}

// Reset drops and recreates the schema.
func (s *Schema) Reset(ctx context.Context) error {
	if err := s.Drop(ctx); err != nil {
		return err
	}
	return s.Create(ctx)
}
