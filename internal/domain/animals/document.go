package animals

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
)

// Document es un documento JSON abierto (breeds, colors, contact...).
// El esquema lo controla upstream; solo se normaliza lo que se inspecciona.
type Document map[string]any

// Documents es una lista de Document (photos, videos).
type Documents []Document

// String devuelve el valor string en path (p.ej. "address", "city"); "" si no existe.
func (d Document) String(path ...string) string {
	var cur any = map[string]any(d)
	for _, p := range path {
		m, ok := asMap(cur)
		if !ok {
			return ""
		}
		cur = m[p]
	}
	s, _ := cur.(string)
	return strings.TrimSpace(s)
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Document:
		return m, true
	default:
		return nil, false
	}
}

// Value implementa driver.Valuer (jsonb).
func (d Document) Value() (driver.Value, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d)
}

// Scan implementa sql.Scanner (jsonb).
func (d *Document) Scan(src any) error {
	b, err := scanBytes(src)
	if err != nil || b == nil {
		*d = Document{}
		return err
	}
	out := Document{}
	if err := json.Unmarshal(b, &out); err != nil {
		return err
	}
	*d = out
	return nil
}

func (d Documents) Value() (driver.Value, error) {
	if d == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(d)
}

func (d *Documents) Scan(src any) error {
	b, err := scanBytes(src)
	if err != nil || b == nil {
		*d = Documents{}
		return err
	}
	out := Documents{}
	if err := json.Unmarshal(b, &out); err != nil {
		return err
	}
	*d = out
	return nil
}

func scanBytes(src any) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New("document: unsupported scan type")
	}
}

// DocumentsFrom convierte la forma cruda de upstream.
func DocumentsFrom(in []map[string]any) Documents {
	out := make(Documents, 0, len(in))
	for _, m := range in {
		out = append(out, Document(m))
	}
	return out
}
