package schema

import (
	"errors"
	"os"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

const userDocument = `{
	"type": "user",
	"fields": [
		{"kind": "@id", "name": "id"},
		{"kind": "field", "name": "name"},
		{"kind": "alias", "name": "displayName", "type": null,
		 "options": {"kind": "field", "name": "name"}}
	]
}`

func TestParseJSON(t *testing.T) {
	s, err := ParseJSON([]byte(userDocument))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Type != "user" || s.Mode != ModeResource {
		t.Errorf("expected resource schema user, got %s %s", s.Type, s.Mode)
	}
	if len(s.Fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(s.Fields))
	}

	alias := s.FieldNamed("displayName")
	if alias == nil || alias.Kind != KindAlias {
		t.Fatalf("expected displayName alias, got %+v", alias)
	}
	target := alias.Options.Target
	if target == nil || target.Kind != KindField || target.Name != "name" {
		t.Errorf("expected field target name, got %+v", target)
	}
}

func TestParseRejectsUnknownKind(t *testing.T) {
	_, err := ParseJSON([]byte(`{"type": "user", "fields": [{"kind": "wat", "name": "x"}]}`))
	if !errors.Is(err, ErrUnknownFieldKind) {
		t.Errorf("expected ErrUnknownFieldKind, got %v", err)
	}
}

func TestParseRejectsUnknownOptions(t *testing.T) {
	cases := map[string]string{
		"@id options":          `{"type": "u", "fields": [{"kind": "@id", "name": "id", "options": {"x": 1}}]}`,
		"resource reset":       `{"type": "u", "fields": [{"kind": "resource", "name": "a", "type": "b", "options": {"resetOnRemoteUpdate": true}}]}`,
		"collection stray key": `{"type": "u", "fields": [{"kind": "collection", "name": "a", "type": "b", "options": {"key": "@index"}}]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseJSON([]byte(doc)); !errors.Is(err, ErrInvalidSchema) {
				t.Errorf("expected ErrInvalidSchema, got %v", err)
			}
		})
	}
}

func TestParseHashWithNullName(t *testing.T) {
	doc := `{
		"type": "$field:tag",
		"identity": {"kind": "@hash", "name": null, "type": "xxhash"},
		"fields": [{"kind": "field", "name": "label"}]
	}`
	s, err := ParseJSON([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Mode != ModeObject {
		t.Errorf("expected object mode, got %s", s.Mode)
	}
	idf := s.IdentityField()
	if idf == nil || idf.Kind != KindHash || idf.Name != "" {
		t.Errorf("expected unnamed @hash identity, got %+v", idf)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	original, err := ParseJSON([]byte(userDocument))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reparsed, err := ParseDocument(original.Document())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if original.Type != reparsed.Type || original.Mode != reparsed.Mode {
		t.Errorf("header changed across round-trip: %+v vs %+v", original, reparsed)
	}
	if !reflect.DeepEqual(original.Fields, reparsed.Fields) {
		t.Errorf("fields changed across round-trip:\n%+v\n%+v", original.Fields, reparsed.Fields)
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir+"/user.json", userDocument)
	writeFile(t, dir+"/tag.json", `{
		"type": "$field:tag",
		"fields": [{"kind": "field", "name": "label"}]
	}`)

	schemas, err := LoadDirectory(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(schemas) != 2 {
		t.Fatalf("expected 2 schemas, got %d", len(schemas))
	}
	// Name order: tag.json before user.json.
	if schemas[0].Type != "$field:tag" || schemas[1].Type != "user" {
		t.Errorf("unexpected order: %s, %s", schemas[0].Type, schemas[1].Type)
	}
}
