package animals

import (
	"html"
	"net/url"
	"strings"
)

// DefaultBlockedHosts son hosts cuyos embeds no se reproducen en el feed.
var DefaultBlockedHosts = []string{"facebook.com"}

// ExtractSrc devuelve el primer valor entre comillas del atributo src
// de un snippet embed (<iframe src="..."> o src='...').
func ExtractSrc(embed string) (string, bool) {
	lower := strings.ToLower(embed)
	from := 0
	for {
		i := strings.Index(lower[from:], "src")
		if i < 0 {
			return "", false
		}
		i += from
		from = i + 3

		// "src" tiene que ser un nombre de atributo, no parte de otro
		if i > 0 {
			prev := lower[i-1]
			if prev != ' ' && prev != '\t' && prev != '\n' && prev != '<' && prev != '"' && prev != '\'' {
				continue
			}
		}

		rest := strings.TrimLeft(embed[from:], " \t\r\n")
		if !strings.HasPrefix(rest, "=") {
			continue
		}
		rest = strings.TrimLeft(rest[1:], " \t\r\n")
		if rest == "" || (rest[0] != '"' && rest[0] != '\'') {
			continue
		}
		quote := rest[0]
		end := strings.IndexByte(rest[1:], quote)
		if end < 0 {
			return "", false
		}
		v := strings.TrimSpace(html.UnescapeString(rest[1 : end+1]))
		if v == "" {
			return "", false
		}
		return v, true
	}
}

// Eligibility decide si un anuncio tiene video reproducible.
type Eligibility struct {
	BlockedHosts []string
}

func NewEligibility(blocked []string) Eligibility {
	hosts := make([]string, 0, len(blocked))
	for _, h := range blocked {
		h = strings.ToLower(strings.TrimSpace(h))
		h = strings.TrimPrefix(h, "www.")
		if h != "" {
			hosts = append(hosts, h)
		}
	}
	return Eligibility{BlockedHosts: hosts}
}

// VideoURL mira solo el primer video. Sin video, sin src, URL inválida o
// host bloqueado => no elegible.
func (e Eligibility) VideoURL(videos Documents) (string, bool) {
	if len(videos) == 0 {
		return "", false
	}
	embed := videos[0].String("embed")
	if embed == "" {
		return "", false
	}
	src, ok := ExtractSrc(embed)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(src, "//") {
		src = "https:" + src
	}

	u, err := url.Parse(src)
	if err != nil || u.Host == "" {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if e.blocked(u.Hostname()) {
		return "", false
	}
	return src, true
}

func (e Eligibility) blocked(host string) bool {
	host = strings.ToLower(host)
	for _, b := range e.BlockedHosts {
		if host == b || strings.HasSuffix(host, "."+b) {
			return true
		}
	}
	return false
}
