package core

import "testing"

func TestColumnMapper_CaseInsensitiveRawHeader(t *testing.T) {
	m := NewColumnMapper(map[string]string{"Correo": "email"})

	row := Row{"correo": "maria@dominio.es"}
	mapped := m.MapRow(row)

	if got := mapped["email"]; got != "maria@dominio.es" {
		t.Errorf("email lookup after mapping = %q, want the Correo value", got)
	}
	if _, ok := mapped["correo"]; ok {
		t.Error("raw header key should not survive mapping")
	}
}

func TestColumnMapper_UnmappedHeadersPassThrough(t *testing.T) {
	m := NewColumnMapper(map[string]string{"correo": "email"})

	mapped := m.MapRow(Row{"correo": "a@b.es", "city": "Lima"})

	if mapped["city"] != "Lima" {
		t.Errorf("unmapped header should pass through, got %v", mapped)
	}
}

func TestColumnMapper_EmptyIsIdentity(t *testing.T) {
	m := NewColumnMapper(nil)

	rows := []Row{{"email": "a@b.es"}}
	mapped := m.MapRows(rows)

	if len(mapped) != 1 || mapped[0]["email"] != "a@b.es" {
		t.Error("empty mapper should act as identity")
	}
}

func TestColumnMapper_MapName(t *testing.T) {
	m := NewColumnMapper(map[string]string{" Código ": "code"})

	if got := m.MapName("código"); got != "code" {
		t.Errorf("MapName(código) = %q, want code", got)
	}
	if got := m.MapName("email"); got != "email" {
		t.Errorf("MapName(email) = %q, want passthrough", got)
	}
}
