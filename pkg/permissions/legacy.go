package permissions

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// legacyEntry mirrors one <permissao .../> element of the legacy serialized
// list format. Older installations embed the list in the session payload as
// an XML string; fields travel as attributes.
type legacyEntry struct {
	ID        string `xml:"id,attr"`
	UsuarioID string `xml:"usuarioId,attr"`
	FilialID  string `xml:"filialId,attr"`
	PainelID  string `xml:"painelId,attr"`
	Nome      string `xml:"nome,attr"`
	Modulo    string `xml:"modulo,attr"`
	Ativo     string `xml:"ativo,attr"`
	Descricao string `xml:"descricao,attr"`
}

// parseLegacyList extracts every <permissao> element of the document,
// whatever the wrapping root looks like, and re-expresses each as a raw map
// so the regular alias pipeline applies. Any parse error degrades to an
// empty list; a broken legacy blob must render as zero permissions, not as
// a crash.
func parseLegacyList(payload string) []any {
	decoder := xml.NewDecoder(strings.NewReader(payload))
	entries := make([]any, 0)

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return []any{}
		}
		start, ok := token.(xml.StartElement)
		if !ok || !strings.EqualFold(start.Name.Local, "permissao") {
			continue
		}
		var entry legacyEntry
		if err := decoder.DecodeElement(&entry, &start); err != nil {
			return []any{}
		}
		entries = append(entries, entry.asRawMap())
	}

	return entries
}

func (e legacyEntry) asRawMap() map[string]any {
	raw := make(map[string]any, 8)
	put := func(key, value string) {
		if strings.TrimSpace(value) != "" {
			raw[key] = value
		}
	}
	put("id", e.ID)
	put("usuarioId", e.UsuarioID)
	put("filialId", e.FilialID)
	put("painelId", e.PainelID)
	put("nome", e.Nome)
	put("modulo", e.Modulo)
	put("ativo", e.Ativo)
	put("descricao", e.Descricao)
	return raw
}
